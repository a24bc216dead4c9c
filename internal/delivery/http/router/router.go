// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"esanspool/internal/delivery/http/middleware"
	"esanspool/internal/delivery/http/router/handler"
	"esanspool/internal/domain/entity"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	EssenceHandler *handler.EssenceHandler
	DemandHandler  *handler.DemandHandler
	ReportHandler  *handler.ReportHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	essenceHandler *handler.EssenceHandler
	demandHandler  *handler.DemandHandler
	reportHandler  *handler.ReportHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		essenceHandler: params.EssenceHandler,
		demandHandler:  params.DemandHandler,
		reportHandler:  params.ReportHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
	}

	// Public catalog routes: browsing and the live stream need no session.
	essenceGroup := e.Group("/essences")
	{
		essenceGroup.GET("", r.essenceHandler.List)
		essenceGroup.GET("/categories", r.essenceHandler.Categories)
		essenceGroup.GET("/watch", r.essenceHandler.Watch)
		essenceGroup.GET("/:id", r.essenceHandler.Get)
		essenceGroup.GET("/:id/qr", r.essenceHandler.QR)
	}

	// Dashboard statistics are public, like the storefront landing page.
	e.GET("/dashboard", r.reportHandler.Dashboard)

	// Demand routes require authentication
	demandGroup := e.Group("/demands")
	demandGroup.Use(r.authMiddleware.Authenticate)
	{
		demandGroup.POST("", r.demandHandler.Create)
		demandGroup.GET("/watch", r.demandHandler.Watch)
		demandGroup.DELETE("/:id", r.demandHandler.Cancel)
	}

	// Profile routes for the authenticated user
	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.userHandler.GetProfile)
		profileGroup.GET("/demands", r.demandHandler.ListMine)
	}

	// Admin routes require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.POST("/essences", r.essenceHandler.Create)
		adminGroup.PUT("/essences/:id", r.essenceHandler.Update)
		adminGroup.DELETE("/essences/:id", r.essenceHandler.Delete)

		adminGroup.GET("/users", r.userHandler.ListUsers)
		adminGroup.PUT("/users/:id", r.userHandler.UpdateUser)
		adminGroup.DELETE("/users/:id", r.userHandler.DeleteUser)
		adminGroup.GET("/users/:id/demands", r.demandHandler.ListForUser)

		adminGroup.GET("/reports/confirmed", r.reportHandler.ConfirmedDemands)
	}
}

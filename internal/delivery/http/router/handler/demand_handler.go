package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"esanspool/internal/delivery/http/middleware"
	"esanspool/internal/delivery/http/response"
	"esanspool/internal/usecase"
)

// DemandHandler holds dependencies for demand-ledger handlers.
type DemandHandler struct {
	uc usecase.DemandUsecase
}

// NewDemandHandler is the constructor for DemandHandler, injected by Fx.
func NewDemandHandler(uc usecase.DemandUsecase) *DemandHandler {
	return &DemandHandler{uc: uc}
}

// Create records a pooled purchase request for the authenticated user.
func (h *DemandHandler) Create(c echo.Context) error {
	var input *usecase.CreateDemandInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid demand input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	view, err := h.uc.CreateDemand(c.Request().Context(), middleware.ActorFromContext(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "Demand created")
}

// Cancel removes a demand; the owner and administrators may do this.
func (h *DemandHandler) Cancel(c echo.Context) error {
	if err := h.uc.CancelDemand(c.Request().Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Demand cancelled")
}

// ListMine returns the authenticated user's demands with their spend total.
func (h *DemandHandler) ListMine(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	output, err := h.uc.ListUserDemands(c.Request().Context(), actor, actor.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// ListForUser returns one user's demands; regular users may only read their own.
func (h *DemandHandler) ListForUser(c echo.Context) error {
	output, err := h.uc.ListUserDemands(c.Request().Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// Watch streams the live demand ledger as server-sent events.
func (h *DemandHandler) Watch(c echo.Context) error {
	ctx := c.Request().Context()

	ch, err := h.uc.WatchLedger(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return streamSSE(c, func() (any, bool) {
		views, ok := <-ch
		return views, ok
	})
}

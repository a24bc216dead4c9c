package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"esanspool/config"
	"esanspool/internal/delivery"
	"esanspool/internal/delivery/http"
	"esanspool/internal/delivery/http/middleware"
	"esanspool/internal/delivery/http/router/handler"
	"esanspool/internal/infra/auth"
	logs "esanspool/internal/infra/log"
	"esanspool/internal/infra/persistence/firestore"
	"esanspool/internal/infra/policy"
	"esanspool/internal/infra/pubsub"
	"esanspool/internal/infra/qrcode"
	"esanspool/internal/usecase"
	"esanspool/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			ensureDefaultAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firestore.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			firestore.NewEssenceRepository,
			firestore.NewDemandRepository,
			firestore.NewUserRepository,
			firestore.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		pubsub.Module,
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			policy.NewAuthorizer,
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewCatalogService,
			impl.NewDemandService,
			impl.NewReportService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewEssenceHandler,
			handler.NewDemandHandler,
			handler.NewReportHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// ensureDefaultAdmin creates or promotes the configured administrator account
// before the server begins accepting requests.
func ensureDefaultAdmin(ctx context.Context, users usecase.UserUsecase, logger *slog.Logger) error {
	if err := users.EnsureDefaultAdmin(ctx); err != nil {
		logger.Error("Failed to ensure default admin", slog.Any("error", err))

		return err
	}

	return nil
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

// Package pubsub publishes essence confirmation events so downstream
// consumers (purchase-order preparation, notifications) can react without
// polling the catalog.
package pubsub

import (
	"context"
	"log/slog"

	"esanspool/config"
	"esanspool/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Supported publisher providers.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// noopPublisher drops events when no provider is configured, so a bare
// deployment still confirms essences normally.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishEssenceConfirmed(_ context.Context, event *service.EssenceConfirmedEvent) error {
	p.logger.Debug("Event publishing disabled, dropping confirmation event",
		slog.String("essence_id", event.EssenceID),
	)

	return nil
}

func (p *noopPublisher) Close() error { return nil }

// PublisherParams holds the dependencies for building the publisher.
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher selects the publisher named by configuration and
// registers its shutdown with the fx lifecycle.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	if cfg == nil || cfg.Provider == "" {
		logger.Info("Event publishing not configured, using no-op publisher")

		return &noopPublisher{logger: logger}, nil
	}

	var (
		publisher service.EventPublisher
		err       error
	)
	switch cfg.Provider {
	case ProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("localEndpoint is required for the local provider")
		}
		publisher = NewLocalHTTPPublisher(cfg.LocalEndpoint, logger)
		logger.Info("Using local HTTP push publisher", slog.String("endpoint", cfg.LocalEndpoint))

	case ProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("projectId and topicId are required for the google provider")
		}
		publisher, err = NewGooglePublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// Module provides the publisher to the fx graph.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)

// Package firestore contains the concrete implementation of the persistence
// layer on Cloud Firestore. Repositories can run either standalone or bound
// to a transaction through the TransactionManager.
package firestore

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"

	"esanspool/config"
)

// Collection names used by the repositories.
const (
	essencesCollection = "essences"
	demandsCollection  = "demands"
	usersCollection    = "users"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New creates the Firestore client through the Firebase app.
func New(params Params) (*firestore.Client, error) {
	cfg := params.Config.Firestore
	if cfg.ProjectID == "" {
		return nil, errors.New("firestore project id must be provided")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(params.Ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firebase app")
	}

	client, err := app.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firestore client")
	}

	params.Logger.Info("Firestore client initialized",
		slog.String("project_id", cfg.ProjectID),
	)

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

package repository

import (
	"context"
	"errors"

	"esanspool/internal/domain/entity"
)

// ErrDemandNotFound is a domain-specific error returned when a demand is not found.
var ErrDemandNotFound = errors.New("demand not found")

// DemandRepository defines the standard operations for the demand ledger.
type DemandRepository interface {
	// FindByID retrieves a single demand by its document id.
	FindByID(ctx context.Context, id string) (*entity.Demand, error)

	// List retrieves the full ledger.
	List(ctx context.Context) ([]*entity.Demand, error)

	// FindByUserID retrieves all demands created by one user.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Demand, error)

	// FindByEssenceID retrieves all demands referencing one essence.
	FindByEssenceID(ctx context.Context, essenceID string) ([]*entity.Demand, error)

	// Create persists a new demand.
	Create(ctx context.Context, demand *entity.Demand) error

	// Delete removes a demand record.
	Delete(ctx context.Context, id string) error

	// Watch emits the full live ledger on every change until ctx is done.
	// The channel is closed when the subscription ends.
	Watch(ctx context.Context) (<-chan []*entity.Demand, error)
}

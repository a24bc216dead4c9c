// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"esanspool/internal/domain/entity"
)

// ErrEssenceNotFound is a domain-specific error returned when an essence is not found.
var ErrEssenceNotFound = errors.New("essence not found")

// EssenceRepository defines the standard operations for catalog persistence.
type EssenceRepository interface {
	// FindByID retrieves a single essence by its document id.
	FindByID(ctx context.Context, id string) (*entity.Essence, error)

	// FindByCode retrieves a single essence by its catalog code.
	FindByCode(ctx context.Context, code string) (*entity.Essence, error)

	// List retrieves the full catalog.
	List(ctx context.Context) ([]*entity.Essence, error)

	// Create persists a new essence.
	Create(ctx context.Context, essence *entity.Essence) error

	// Update modifies an existing essence.
	Update(ctx context.Context, essence *entity.Essence) error

	// AddTotalDemand atomically adjusts the running demand counter by delta
	// (negative to decrement).
	AddTotalDemand(ctx context.Context, id string, delta int64) error

	// Delete removes the essence record. It does not touch referencing
	// demands; cascading is the usecase's concern.
	Delete(ctx context.Context, id string) error

	// Watch emits the full live catalog on every change until ctx is done.
	// The channel is closed when the subscription ends.
	Watch(ctx context.Context) (<-chan []*entity.Essence, error)
}

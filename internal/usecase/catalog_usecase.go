// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/service"

	"github.com/shopspring/decimal"
)

// CatalogUsecase defines the catalog-facing business operations.
type CatalogUsecase interface {
	// ListEssences returns the catalog filtered by the query, as derived views.
	ListEssences(ctx context.Context, query pool.Query) ([]*EssenceView, error)

	// GetEssence returns one essence as a derived view.
	GetEssence(ctx context.Context, id string) (*EssenceView, error)

	// Categories returns the distinct categories for the filter bar.
	Categories(ctx context.Context) ([]string, error)

	// CreateEssence adds a catalog item. Admin only.
	CreateEssence(ctx context.Context, actor service.Actor, input *CreateEssenceInput) (*EssenceView, error)

	// UpdateEssence edits a catalog item. Admin only.
	UpdateEssence(ctx context.Context, actor service.Actor, id string, input *UpdateEssenceInput) error

	// DeleteEssence removes an essence and every demand referencing it. Admin only.
	DeleteEssence(ctx context.Context, actor service.Actor, id string) error

	// WatchCatalog streams the full derived catalog on every change.
	WatchCatalog(ctx context.Context) (<-chan []*EssenceView, error)

	// EssenceQR renders a printable PNG QR code linking to the essence.
	EssenceQR(ctx context.Context, id string) ([]byte, error)
}

// EssenceView is an essence together with its derived purchase status.
type EssenceView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Category     string          `json:"category,omitempty"`
	StockAmount  int64           `json:"stock_amount"`
	TotalDemand  int64           `json:"total_demand"`
	TargetAmount int64           `json:"target_amount"`
	Remaining    int64           `json:"remaining"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewEssenceView derives the view of one essence.
func NewEssenceView(e *entity.Essence) *EssenceView {
	status := pool.Classify(e)

	return &EssenceView{
		ID:           e.ID,
		Name:         e.Name,
		Code:         e.Code,
		Category:     e.Category,
		StockAmount:  e.StockAmount,
		TotalDemand:  e.TotalDemand,
		TargetAmount: e.TargetAmount,
		Remaining:    e.Remaining(),
		Price:        e.Price,
		Status:       status.String(),
		StatusLabel:  status.Label(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// NewEssenceViews derives views for a whole catalog slice.
func NewEssenceViews(essences []*entity.Essence) []*EssenceView {
	views := make([]*EssenceView, 0, len(essences))
	for _, e := range essences {
		views = append(views, NewEssenceView(e))
	}

	return views
}

// --- Input DTOs ---

// CreateEssenceInput defines the data required to create an essence.
type CreateEssenceInput struct {
	Name         string          `json:"name" validate:"required"`
	Code         string          `json:"code" validate:"required"`
	Category     string          `json:"category"`
	StockAmount  int64           `json:"stock_amount" validate:"gte=0"`
	Price        decimal.Decimal `json:"price"`
	TargetAmount int64           `json:"target_amount"` // 0 → default threshold
}

// UpdateEssenceInput defines the data that may be edited on an essence.
// Nil fields are left untouched.
type UpdateEssenceInput struct {
	Name         *string          `json:"name,omitempty"`
	Code         *string          `json:"code,omitempty"`
	Category     *string          `json:"category,omitempty"`
	StockAmount  *int64           `json:"stock_amount,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	TargetAmount *int64           `json:"target_amount,omitempty"`
}

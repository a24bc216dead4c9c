package usecase

import (
	"context"
	"time"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/service"

	"github.com/shopspring/decimal"
)

// DemandUsecase defines the demand-ledger business operations.
type DemandUsecase interface {
	// CreateDemand records a pooled purchase request against an essence.
	// The capacity check, the demand write and the counter increment run in
	// one transaction; crossing the confirmation threshold publishes an
	// essence.confirmed event after commit.
	CreateDemand(ctx context.Context, actor service.Actor, input *CreateDemandInput) (*DemandView, error)

	// CancelDemand removes a demand and atomically restores the essence
	// counter. Allowed for the demand's owner and administrators.
	CancelDemand(ctx context.Context, actor service.Actor, demandID string) error

	// ListUserDemands returns one user's demands with their running spend
	// total. Regular users may only list their own.
	ListUserDemands(ctx context.Context, actor service.Actor, userID string) (*UserDemandsOutput, error)

	// WatchLedger streams the full live demand ledger on every change.
	WatchLedger(ctx context.Context) (<-chan []*DemandView, error)
}

// DemandView is the client-facing shape of one demand.
type DemandView struct {
	ID          string          `json:"id"`
	EssenceID   string          `json:"essence_id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	EssenceName string          `json:"essence_name"`
	EssenceCode string          `json:"essence_code"`
	Category    string          `json:"category,omitempty"`
	Amount      int64           `json:"amount"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewDemandView derives the view of one demand.
func NewDemandView(d *entity.Demand) *DemandView {
	return &DemandView{
		ID:          d.ID,
		EssenceID:   d.EssenceID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		EssenceName: d.EssenceName,
		EssenceCode: d.EssenceCode,
		Category:    d.Category,
		Amount:      d.Amount,
		UnitPrice:   pool.UnitPrice(d),
		TotalPrice:  d.TotalPrice,
		CreatedAt:   d.CreatedAt,
	}
}

// NewDemandViews derives views for a ledger slice.
func NewDemandViews(demands []*entity.Demand) []*DemandView {
	views := make([]*DemandView, 0, len(demands))
	for _, d := range demands {
		views = append(views, NewDemandView(d))
	}

	return views
}

// --- Input/Output DTOs ---

// CreateDemandInput defines the data required to create a demand.
// Amount 0 means "use the configured default increment".
type CreateDemandInput struct {
	EssenceID string `json:"essence_id" validate:"required"`
	Amount    int64  `json:"amount" validate:"gte=0"`
}

// UserDemandsOutput is a user's demand history with the spend total shown on
// the profile screen (sum of per-demand unit prices).
type UserDemandsOutput struct {
	Demands    []*DemandView   `json:"demands"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

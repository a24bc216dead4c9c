package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Demand is a single user's request for a quantity of one essence.
//
// UserName, EssenceName, EssenceCode and Category are denormalized snapshots
// taken at creation time so that listings and reports do not depend on the
// referenced documents still existing unchanged. UnitPrice is likewise the
// essence's price at creation time; later price edits do not touch it.
type Demand struct {
	ID          string          // Opaque document id.
	EssenceID   string          // Reference to the demanded essence.
	UserID      string          // Reference to the requesting user.
	UserName    string          // Requester display name snapshot.
	EssenceName string          // Essence name snapshot.
	EssenceCode string          // Essence code snapshot.
	Category    string          // Essence category snapshot.
	Amount      int64           // Requested grams, always > 0.
	UnitPrice   decimal.Decimal // Per-gram price snapshot at creation time.
	TotalPrice  decimal.Decimal // Amount × UnitPrice, fixed at creation time.
	CreatedAt   time.Time       // Timestamp of when this demand was created.
}

// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTargetAmount is the aggregate quantity, in grams, at which an essence
// is considered committed for purchase unless the administrator sets another.
const DefaultTargetAmount int64 = 250

// Essence is a catalog item: a fragrance raw material offered for pooled
// purchase. Quantities are grams; Price is the per-gram unit price.
type Essence struct {
	ID           string          // Opaque document id.
	Name         string          // Display name, e.g. "Rose Absolute".
	Code         string          // Unique alphanumeric catalog code.
	Category     string          // Optional free-form category.
	StockAmount  int64           // Grams available in stock.
	TotalDemand  int64           // Running sum of demand amounts referencing this essence.
	TargetAmount int64           // Confirmation threshold in grams.
	Price        decimal.Decimal // Unit price per gram.
	CreatedAt    time.Time       // Timestamp of when this essence was created.
	UpdatedAt    time.Time       // Timestamp of the last modification.
}

// Remaining returns the stock not yet claimed by pooled demand.
func (e *Essence) Remaining() int64 {
	return e.StockAmount - e.TotalDemand
}

// Package pool implements the demand aggregation and confirmation engine:
// per-essence demand totals, the derived purchase status, and the
// preconditions for accepting a new demand. All functions are pure; callers
// feed them the current catalog and ledger state.
package pool

import (
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// TotalDemand sums the demanded amount over all demands referencing the given
// essence. The sum is commutative, so the result does not depend on the order
// of the ledger. Returns 0 when nothing matches.
func TotalDemand(essenceID string, demands []*entity.Demand) int64 {
	var total int64
	for _, d := range demands {
		if d.EssenceID == essenceID {
			total += d.Amount
		}
	}

	return total
}

// target returns the essence's confirmation threshold, falling back to the
// default for documents created before the threshold became configurable.
func target(e *entity.Essence) int64 {
	if e.TargetAmount > 0 {
		return e.TargetAmount
	}

	return entity.DefaultTargetAmount
}

// ReachedTarget reports whether pooled demand reached the confirmation
// threshold. This is the raw predicate behind the "Kesin Alım" chip.
func ReachedTarget(e *entity.Essence) bool {
	return e.TotalDemand >= target(e)
}

// IsExhausted reports whether pooled demand consumed the entire stock.
// Both predicates can hold at once when stock == totalDemand == target;
// Classify resolves that tie.
func IsExhausted(e *entity.Essence) bool {
	return e.StockAmount == e.TotalDemand
}

// Classify derives the purchase status of an essence. When an essence is both
// at target and out of stock, Confirmed wins: a pool that reached its
// threshold is a committed purchase, exhaustion only means no further demand
// is accepted.
func Classify(e *entity.Essence) entity.EssenceStatus {
	switch {
	case ReachedTarget(e):
		return entity.StatusConfirmed
	case IsExhausted(e):
		return entity.StatusExhausted
	default:
		return entity.StatusCollecting
	}
}

// CanCreateDemand checks the two acceptance preconditions for a new demand:
// the requested amount must not exceed stock, and the pooled total after the
// request must not exceed stock either. It returns nil when the demand is
// acceptable.
func CanCreateDemand(e *entity.Essence, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidDemandAmount
	}
	if e.StockAmount < amount || e.TotalDemand+amount > e.StockAmount {
		return domainerrors.ErrInsufficientStock
	}

	return nil
}

// UnitPrice returns the per-gram price of a demand. Demands carry the price
// snapshotted at creation time; documents from before the snapshot field
// existed fall back to TotalPrice / Amount.
func UnitPrice(d *entity.Demand) decimal.Decimal {
	if !d.UnitPrice.IsZero() {
		return d.UnitPrice
	}
	if d.Amount > 0 && !d.TotalPrice.IsZero() {
		return d.TotalPrice.Div(decimal.NewFromInt(d.Amount))
	}

	return decimal.Zero
}

// Package model contains the document representations persisted in
// Firestore, separate from the domain entities. Monetary values are stored
// as strings to avoid floating-point drift in documents.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"esanspool/internal/domain/entity"
)

// EssenceDoc is the Firestore document shape of a catalog essence.
type EssenceDoc struct {
	Name         string    `firestore:"name"`
	Code         string    `firestore:"code"`
	Category     string    `firestore:"category"`
	StockAmount  int64     `firestore:"stockAmount"`
	TotalDemand  int64     `firestore:"totalDemand"`
	TargetAmount int64     `firestore:"targetAmount"`
	Price        string    `firestore:"price"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// EssenceDocFromEntity converts a domain essence into its document form.
func EssenceDocFromEntity(e *entity.Essence) *EssenceDoc {
	return &EssenceDoc{
		Name:         e.Name,
		Code:         e.Code,
		Category:     e.Category,
		StockAmount:  e.StockAmount,
		TotalDemand:  e.TotalDemand,
		TargetAmount: e.TargetAmount,
		Price:        e.Price.String(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToEntity converts the document back into a domain essence. The document id
// is carried separately because Firestore keeps it outside the document body.
func (d *EssenceDoc) ToEntity(id string) *entity.Essence {
	return &entity.Essence{
		ID:           id,
		Name:         d.Name,
		Code:         d.Code,
		Category:     d.Category,
		StockAmount:  d.StockAmount,
		TotalDemand:  d.TotalDemand,
		TargetAmount: d.TargetAmount,
		Price:        parseDecimal(d.Price),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// parseDecimal reads a stored decimal string, treating legacy empty or
// malformed values as zero.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return value
}

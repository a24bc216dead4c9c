package model

import (
	"time"

	"esanspool/internal/domain/entity"
)

// DemandDoc is the Firestore document shape of a pooled demand.
type DemandDoc struct {
	EssenceID   string    `firestore:"essenceId"`
	UserID      string    `firestore:"userId"`
	UserName    string    `firestore:"userName"`
	EssenceName string    `firestore:"essenceName"`
	EssenceCode string    `firestore:"essenceCode"`
	Category    string    `firestore:"category"`
	Amount      int64     `firestore:"amount"`
	UnitPrice   string    `firestore:"unitPrice"`
	TotalPrice  string    `firestore:"totalPrice"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// DemandDocFromEntity converts a domain demand into its document form.
func DemandDocFromEntity(d *entity.Demand) *DemandDoc {
	return &DemandDoc{
		EssenceID:   d.EssenceID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		EssenceName: d.EssenceName,
		EssenceCode: d.EssenceCode,
		Category:    d.Category,
		Amount:      d.Amount,
		UnitPrice:   d.UnitPrice.String(),
		TotalPrice:  d.TotalPrice.String(),
		CreatedAt:   d.CreatedAt,
	}
}

// ToEntity converts the document back into a domain demand. Legacy records
// may lack a unit price; the pool package derives it from the total then.
func (d *DemandDoc) ToEntity(id string) *entity.Demand {
	return &entity.Demand{
		ID:          id,
		EssenceID:   d.EssenceID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		EssenceName: d.EssenceName,
		EssenceCode: d.EssenceCode,
		Category:    d.Category,
		Amount:      d.Amount,
		UnitPrice:   parseDecimal(d.UnitPrice),
		TotalPrice:  parseDecimal(d.TotalPrice),
		CreatedAt:   d.CreatedAt,
	}
}

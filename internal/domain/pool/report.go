package pool

import (
	"time"

	"esanspool/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Placeholders shown when a user's profile is missing a field, matching the
// storefront report.
const (
	placeholderName         = "İsimsiz Kullanıcı"
	placeholderPhone        = "Telefon bilgisi yok"
	placeholderCity         = "Şehir bilgisi yok"
	placeholderDistrict     = "İlçe bilgisi yok"
	placeholderNeighborhood = "Mahalle bilgisi yok"
	placeholderAddress      = "Adres bilgisi yok"
	placeholderEmail        = "E-posta bilgisi yok"
)

// ContactInfo is the profile snapshot attached to a report entry.
type ContactInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	Address      string `json:"address"`
}

// ReportLine is one demand inside a user's confirmed-purchase report.
type ReportLine struct {
	DemandID    string          `json:"demand_id"`
	EssenceName string          `json:"essence_name"`
	EssenceCode string          `json:"essence_code"`
	Category    string          `json:"category"`
	Amount      int64           `json:"amount"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Date        time.Time       `json:"date"`
}

// UserReport aggregates one user's demands against confirmed essences.
// TotalAmount is the running sum of the per-line unit prices.
type UserReport struct {
	UserID      string          `json:"user_id"`
	UserInfo    ContactInfo     `json:"user_info"`
	Lines       []ReportLine    `json:"demands"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// GroupConfirmedByUser builds the confirmed-purchase report: demands whose
// essence reached its target, grouped by user. Demands referencing an unknown
// essence or an unknown user are skipped, not defaulted. Line items keep the
// ledger's order; users appear in order of their first kept demand.
func GroupConfirmedByUser(
	demands []*entity.Demand,
	essences map[string]*entity.Essence,
	users map[string]*entity.User,
) []*UserReport {
	byUser := make(map[string]*UserReport)
	order := make([]string, 0)

	for _, d := range demands {
		essence, ok := essences[d.EssenceID]
		if !ok || !ReachedTarget(essence) {
			continue
		}
		user, ok := users[d.UserID]
		if !ok {
			continue
		}

		report, ok := byUser[d.UserID]
		if !ok {
			report = &UserReport{
				UserID:      d.UserID,
				UserInfo:    contactInfo(user),
				TotalAmount: decimal.Zero,
			}
			byUser[d.UserID] = report
			order = append(order, d.UserID)
		}

		unit := UnitPrice(d)
		report.Lines = append(report.Lines, ReportLine{
			DemandID:    d.ID,
			EssenceName: d.EssenceName,
			EssenceCode: d.EssenceCode,
			Category:    essence.Category,
			Amount:      d.Amount,
			UnitPrice:   unit,
			Date:        d.CreatedAt,
		})
		report.TotalAmount = report.TotalAmount.Add(unit)
	}

	reports := make([]*UserReport, 0, len(order))
	for _, userID := range order {
		reports = append(reports, byUser[userID])
	}

	return reports
}

func contactInfo(u *entity.User) ContactInfo {
	info := ContactInfo{
		Name:         u.FullName(),
		Email:        u.Email,
		Phone:        u.Phone,
		City:         u.City,
		District:     u.District,
		Neighborhood: u.Neighborhood,
		Address:      u.Address,
	}
	if info.Name == "" {
		info.Name = placeholderName
	}
	if info.Email == "" {
		info.Email = placeholderEmail
	}
	if info.Phone == "" {
		info.Phone = placeholderPhone
	}
	if info.City == "" {
		info.City = placeholderCity
	}
	if info.District == "" {
		info.District = placeholderDistrict
	}
	if info.Neighborhood == "" {
		info.Neighborhood = placeholderNeighborhood
	}
	if info.Address == "" {
		info.Address = placeholderAddress
	}

	return info
}

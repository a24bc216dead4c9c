package usecase

import (
	"context"

	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/service"
)

// ReportUsecase defines the aggregated reporting operations.
type ReportUsecase interface {
	// ConfirmedDemands builds the per-user confirmed-purchase report. Admin only.
	ConfirmedDemands(ctx context.Context, actor service.Actor) ([]*pool.UserReport, error)

	// DashboardSummary computes the dashboard statistics and chart series.
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

// EssenceSeries is one essence's pair of chart values.
type EssenceSeries struct {
	Name        string `json:"name"`
	TotalDemand int64  `json:"total_demand"`
	StockAmount int64  `json:"stock_amount"`
}

// DashboardSummary carries the stat cards and chart payloads of the dashboard.
type DashboardSummary struct {
	TotalDemand    int64           `json:"total_demand"`
	TotalStock     int64           `json:"total_stock"`
	EssenceCount   int             `json:"essence_count"`
	DemandCount    int             `json:"demand_count"`
	ConfirmedCount int             `json:"confirmed_count"`
	TopEssences    []EssenceSeries `json:"top_essences"` // Top 5 by pooled demand.
	Series         []EssenceSeries `json:"series"`       // Full per-essence series, catalog order.
}

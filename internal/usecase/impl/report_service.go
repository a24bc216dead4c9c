package impl

import (
	"context"
	"log/slog"
	"sort"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/repository"
	"esanspool/internal/domain/service"
	"esanspool/internal/usecase"

	"github.com/pkg/errors"
)

// topEssenceCount limits the dashboard's "most demanded" bar chart.
const topEssenceCount = 5

// reportService implements the ReportUsecase interface.
type reportService struct {
	essences repository.EssenceRepository
	demands  repository.DemandRepository
	users    repository.UserRepository
	authz    service.Authorizer
	logger   *slog.Logger
}

// NewReportService is the constructor for reportService.
func NewReportService(
	essences repository.EssenceRepository,
	demands repository.DemandRepository,
	users repository.UserRepository,
	authz service.Authorizer,
	logger *slog.Logger,
) usecase.ReportUsecase {
	return &reportService{
		essences: essences,
		demands:  demands,
		users:    users,
		authz:    authz,
		logger:   logger,
	}
}

// ConfirmedDemands builds the per-user confirmed-purchase report.
func (srv *reportService) ConfirmedDemands(ctx context.Context, actor service.Actor) ([]*pool.UserReport, error) {
	if err := srv.authz.Authorize(actor, service.ActionViewReports, ""); err != nil {
		return nil, err
	}

	demands, err := srv.demands.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list demands")
	}
	essences, err := srv.essences.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list essences")
	}
	users, err := srv.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	essenceIndex := make(map[string]*entity.Essence, len(essences))
	for _, e := range essences {
		essenceIndex[e.ID] = e
	}
	userIndex := make(map[string]*entity.User, len(users))
	for _, u := range users {
		userIndex[u.ID] = u
	}

	return pool.GroupConfirmedByUser(demands, essenceIndex, userIndex), nil
}

// DashboardSummary computes the dashboard statistic cards and chart series.
func (srv *reportService) DashboardSummary(ctx context.Context) (*usecase.DashboardSummary, error) {
	essences, err := srv.essences.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list essences")
	}
	demands, err := srv.demands.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list demands")
	}

	summary := &usecase.DashboardSummary{
		EssenceCount: len(essences),
		DemandCount:  len(demands),
	}

	series := make([]usecase.EssenceSeries, 0, len(essences))
	for _, e := range essences {
		summary.TotalDemand += e.TotalDemand
		summary.TotalStock += e.StockAmount
		if pool.ReachedTarget(e) {
			summary.ConfirmedCount++
		}
		series = append(series, usecase.EssenceSeries{
			Name:        e.Name,
			TotalDemand: e.TotalDemand,
			StockAmount: e.StockAmount,
		})
	}
	summary.Series = series

	top := make([]usecase.EssenceSeries, len(series))
	copy(top, series)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalDemand > top[j].TotalDemand
	})
	if len(top) > topEssenceCount {
		top = top[:topEssenceCount]
	}
	summary.TopEssences = top

	return summary, nil
}

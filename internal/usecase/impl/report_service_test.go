package impl

import (
	"context"
	"testing"

	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/infra/policy"
	"esanspool/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportWorld() (usecase.ReportUsecase, *testWorld) {
	world := newTestWorld()
	svc := NewReportService(
		world.essences,
		world.demands,
		world.users,
		policy.NewAuthorizer(),
		discardLogger(),
	)

	return svc, world
}

func seedDemand(t *testing.T, world *testWorld, d *entity.Demand) {
	t.Helper()
	require.NoError(t, world.demands.Create(context.Background(), d))
}

func TestConfirmedDemands_AdminOnly(t *testing.T) {
	svc, _ := newReportWorld()

	_, err := svc.ConfirmedDemands(context.Background(), userActor)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestConfirmedDemands_GroupsConfirmedOnly(t *testing.T) {
	svc, world := newReportWorld()
	ctx := context.Background()

	seedUser(t, world, "u1", "Ayşe", "Yılmaz")
	seedUser(t, world, "u2", "Mehmet", "Demir")
	// Confirmed: pooled demand reached the 250g target.
	seedEssence(t, world, &entity.Essence{
		ID: "e1", Name: "Gül", Code: "GUL01", Category: "Çiçeksi",
		StockAmount: 500, TotalDemand: 250, TargetAmount: 250,
		Price: decimal.NewFromInt(10),
	})
	// Still collecting, its demands must not appear.
	seedEssence(t, world, &entity.Essence{
		ID: "e2", Name: "Paçuli", Code: "PAC01", Category: "Odunsu",
		StockAmount: 500, TotalDemand: 100, TargetAmount: 250,
		Price: decimal.NewFromInt(20),
	})

	seedDemand(t, world, &entity.Demand{
		ID: "d1", EssenceID: "e1", UserID: "u1", EssenceName: "Gül", EssenceCode: "GUL01",
		Amount: 150, UnitPrice: decimal.NewFromInt(10),
	})
	seedDemand(t, world, &entity.Demand{
		ID: "d2", EssenceID: "e1", UserID: "u2", EssenceName: "Gül", EssenceCode: "GUL01",
		Amount: 100, UnitPrice: decimal.NewFromInt(10),
	})
	seedDemand(t, world, &entity.Demand{
		ID: "d3", EssenceID: "e2", UserID: "u1", EssenceName: "Paçuli", EssenceCode: "PAC01",
		Amount: 100, UnitPrice: decimal.NewFromInt(20),
	})

	reports, err := svc.ConfirmedDemands(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "u1", reports[0].UserID)
	require.Len(t, reports[0].Lines, 1)
	assert.Equal(t, "d1", reports[0].Lines[0].DemandID)
	assert.Equal(t, "Çiçeksi", reports[0].Lines[0].Category)

	assert.Equal(t, "u2", reports[1].UserID)
	require.Len(t, reports[1].Lines, 1)
	assert.Equal(t, "d2", reports[1].Lines[0].DemandID)
}

func TestDashboardSummary(t *testing.T) {
	svc, world := newReportWorld()
	ctx := context.Background()

	seedEssence(t, world, &entity.Essence{
		ID: "e1", Name: "Gül", Code: "GUL01",
		StockAmount: 500, TotalDemand: 250, TargetAmount: 250,
	})
	seedEssence(t, world, &entity.Essence{
		ID: "e2", Name: "Paçuli", Code: "PAC01",
		StockAmount: 300, TotalDemand: 100, TargetAmount: 250,
	})
	seedDemand(t, world, &entity.Demand{ID: "d1", EssenceID: "e1", UserID: "u1", Amount: 250})
	seedDemand(t, world, &entity.Demand{ID: "d2", EssenceID: "e2", UserID: "u1", Amount: 100})

	summary, err := svc.DashboardSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.EssenceCount)
	assert.Equal(t, 2, summary.DemandCount)
	assert.Equal(t, int64(350), summary.TotalDemand)
	assert.Equal(t, int64(800), summary.TotalStock)
	assert.Equal(t, 1, summary.ConfirmedCount)
	require.Len(t, summary.Series, 2)

	// Most demanded essence leads the chart.
	require.NotEmpty(t, summary.TopEssences)
	assert.Equal(t, "Gül", summary.TopEssences[0].Name)
}

func TestDashboardSummary_TopEssencesCapped(t *testing.T) {
	svc, world := newReportWorld()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		seedEssence(t, world, &entity.Essence{
			ID:          string(rune('a' + i)),
			Name:        string(rune('A' + i)),
			Code:        "ES0" + string(rune('1'+i)),
			StockAmount: 1000,
			TotalDemand: int64(10 * (i + 1)),
		})
	}

	summary, err := svc.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.EssenceCount)
	assert.Len(t, summary.Series, 7)
	assert.Len(t, summary.TopEssences, 5)
	assert.Equal(t, "G", summary.TopEssences[0].Name)
}

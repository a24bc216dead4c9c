package impl

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esanspool/config"
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/service"
	"esanspool/internal/infra/policy"
	"esanspool/internal/usecase"
)

func demandConfig() *config.Config {
	return &config.Config{Catalog: &config.CatalogConfig{DefaultDemandAmount: 50}}
}

func newDemandWorld(t *testing.T) (*testWorld, usecase.DemandUsecase) {
	t.Helper()
	world := newTestWorld()
	svc := NewDemandService(
		world.txManager,
		world.demands,
		world.publisher,
		policy.NewAuthorizer(),
		demandConfig(),
		discardLogger(),
	)

	return world, svc
}

func seedUser(t *testing.T, world *testWorld, id, first, last string) {
	t.Helper()
	require.NoError(t, world.users.Create(context.Background(), &entity.User{
		ID:        id,
		Email:     id + "@example.com",
		Role:      entity.RoleUser,
		FirstName: first,
		LastName:  last,
	}))
}

func seedEssence(t *testing.T, world *testWorld, e *entity.Essence) {
	t.Helper()
	require.NoError(t, world.essences.Create(context.Background(), e))
}

func TestCreateDemand_SnapshotsAndCounter(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{
		ID:          "e1",
		Name:        "Gül",
		Code:        "GUL01",
		Category:    "Çiçeksi",
		StockAmount: 500,
		Price:       decimal.RequireFromString("10.50"),
	})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}

	view, err := svc.CreateDemand(context.Background(), actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 100})
	require.NoError(t, err)

	assert.Equal(t, "Ayşe Yılmaz", view.UserName)
	assert.Equal(t, "Gül", view.EssenceName)
	assert.Equal(t, "GUL01", view.EssenceCode)
	assert.Equal(t, int64(100), view.Amount)
	assert.True(t, view.UnitPrice.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("1050")))

	essence, err := world.essences.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), essence.TotalDemand)
}

func TestCreateDemand_DefaultAmount(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{ID: "e1", Name: "Gül", StockAmount: 500, Price: decimal.NewFromInt(1)})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}

	view, err := svc.CreateDemand(context.Background(), actor, &usecase.CreateDemandInput{EssenceID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), view.Amount)
}

func TestCreateDemand_CapacityChecks(t *testing.T) {
	tests := []struct {
		name        string
		stock       int64
		totalDemand int64
		amount      int64
		wantErr     error
	}{
		{"stock below amount", 10, 0, 50, domainerrors.ErrInsufficientStock},
		{"pool would exceed stock", 100, 80, 50, domainerrors.ErrInsufficientStock},
		{"fits remaining stock", 100, 80, 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, svc := newDemandWorld(t)
			seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
			seedEssence(t, world, &entity.Essence{
				ID:          "e1",
				Name:        "Gül",
				StockAmount: tt.stock,
				TotalDemand: tt.totalDemand,
				Price:       decimal.NewFromInt(1),
			})
			actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}

			_, err := svc.CreateDemand(context.Background(), actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: tt.amount})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				// A rejected demand must leave the ledger and counter untouched.
				demands, _ := world.demands.List(context.Background())
				assert.Empty(t, demands)
				essence, _ := world.essences.FindByID(context.Background(), "e1")
				assert.Equal(t, tt.totalDemand, essence.TotalDemand)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateDemand_UnknownEssence(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}

	_, err := svc.CreateDemand(context.Background(), actor, &usecase.CreateDemandInput{EssenceID: "missing", Amount: 50})
	assert.ErrorIs(t, err, domainerrors.ErrEssenceNotFound)
}

func TestCreateDemand_PublishesOnThresholdCrossingOnly(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{
		ID:           "e1",
		Name:         "Gül",
		Code:         "GUL01",
		StockAmount:  1000,
		TargetAmount: 100,
		Price:        decimal.NewFromInt(1),
	})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	ctx := context.Background()

	// Below the threshold: no event.
	_, err := svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 60})
	require.NoError(t, err)
	assert.Empty(t, world.publisher.events)

	// Crossing the threshold: exactly one event.
	_, err = svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 40})
	require.NoError(t, err)
	require.Len(t, world.publisher.events, 1)
	event := world.publisher.events[0]
	assert.Equal(t, "e1", event.EssenceID)
	assert.Equal(t, "GUL01", event.EssenceCode)
	assert.Equal(t, int64(100), event.TotalDemand)
	assert.Equal(t, int64(100), event.TargetAmount)

	// Already past the threshold: no further events.
	_, err = svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 50})
	require.NoError(t, err)
	assert.Len(t, world.publisher.events, 1)
}

func TestCancelDemand_RestoresCounter(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{ID: "e1", Name: "Gül", StockAmount: 500, Price: decimal.NewFromInt(1)})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	ctx := context.Background()

	view, err := svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 100})
	require.NoError(t, err)

	require.NoError(t, svc.CancelDemand(ctx, actor, view.ID))

	essence, err := world.essences.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), essence.TotalDemand)

	demands, err := world.demands.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, demands)
}

func TestCancelDemand_Authorization(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{ID: "e1", Name: "Gül", StockAmount: 500, Price: decimal.NewFromInt(1)})
	owner := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	ctx := context.Background()

	view, err := svc.CreateDemand(ctx, owner, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 50})
	require.NoError(t, err)

	// Another regular user may not cancel it.
	other := service.Actor{UserID: "user-2", Role: entity.RoleUser}
	assert.ErrorIs(t, svc.CancelDemand(ctx, other, view.ID), domainerrors.ErrForbidden)

	// The counter must be untouched by the refused cancel.
	essence, _ := world.essences.FindByID(ctx, "e1")
	assert.Equal(t, int64(50), essence.TotalDemand)

	// An administrator may.
	admin := service.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	assert.NoError(t, svc.CancelDemand(ctx, admin, view.ID))
}

func TestCancelDemand_NotFound(t *testing.T) {
	_, svc := newDemandWorld(t)
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}

	err := svc.CancelDemand(context.Background(), actor, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrDemandNotFound)
}

func TestListUserDemands_SpendTotalSumsUnitPrices(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{ID: "e1", Name: "Gül", StockAmount: 500, Price: decimal.NewFromInt(5)})
	seedEssence(t, world, &entity.Essence{ID: "e2", Name: "Paçuli", StockAmount: 500, Price: decimal.NewFromInt(6)})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	ctx := context.Background()

	_, err := svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 50})
	require.NoError(t, err)
	_, err = svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e2", Amount: 50})
	require.NoError(t, err)

	output, err := svc.ListUserDemands(ctx, actor, "user-1")
	require.NoError(t, err)
	assert.Len(t, output.Demands, 2)
	assert.True(t, output.TotalSpend.Equal(decimal.NewFromInt(11)), "got %s", output.TotalSpend)

	// Regular users may not read another user's history.
	_, err = svc.ListUserDemands(ctx, actor, "user-2")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Administrators may.
	admin := service.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	_, err = svc.ListUserDemands(ctx, admin, "user-1")
	assert.NoError(t, err)
}

func TestWatchLedger_StreamsViews(t *testing.T) {
	world, svc := newDemandWorld(t)
	seedUser(t, world, "user-1", "Ayşe", "Yılmaz")
	seedEssence(t, world, &entity.Essence{ID: "e1", Name: "Gül", StockAmount: 500, Price: decimal.NewFromInt(1)})
	actor := service.Actor{UserID: "user-1", Role: entity.RoleUser}
	ctx := context.Background()

	_, err := svc.CreateDemand(ctx, actor, &usecase.CreateDemandInput{EssenceID: "e1", Amount: 50})
	require.NoError(t, err)

	ch, err := svc.WatchLedger(ctx)
	require.NoError(t, err)

	views, ok := <-ch
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Equal(t, "Gül", views[0].EssenceName)
}

package impl

import (
	"context"
	"log/slog"
	"time"

	"esanspool/config"
	deliverycontext "esanspool/internal/delivery/context"
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/repository"
	"esanspool/internal/domain/service"
	"esanspool/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// fallbackUserName labels demands whose requester has no name on file.
const fallbackUserName = "Bilinmeyen Kullanıcı"

// demandService implements the DemandUsecase interface.
type demandService struct {
	txManager repository.TransactionManager
	demands   repository.DemandRepository
	publisher service.EventPublisher
	authz     service.Authorizer
	cfg       *config.Config
	logger    *slog.Logger
}

// NewDemandService is the constructor for demandService.
func NewDemandService(
	txManager repository.TransactionManager,
	demands repository.DemandRepository,
	publisher service.EventPublisher,
	authz service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.DemandUsecase {
	return &demandService{
		txManager: txManager,
		demands:   demands,
		publisher: publisher,
		authz:     authz,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateDemand records a pooled purchase request. The essence read, the
// capacity check, the demand write and the counter increment share one
// transaction so concurrent requests cannot both pass the check against a
// stale counter.
func (srv *demandService) CreateDemand(ctx context.Context, actor service.Actor, input *usecase.CreateDemandInput) (*usecase.DemandView, error) {
	if err := srv.authz.Authorize(actor, service.ActionCreateDemand, ""); err != nil {
		return nil, err
	}

	amount := input.Amount
	if amount == 0 {
		amount = srv.cfg.Catalog.DefaultDemandAmount
	}
	if amount < 0 {
		return nil, domainerrors.ErrInvalidDemandAmount
	}

	var demand *entity.Demand
	var confirmed *service.EssenceConfirmedEvent

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		essenceRepo := repoFactory.EssenceRepo()
		demandRepo := repoFactory.DemandRepo()
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find requesting user")
		}

		essence, err := essenceRepo.FindByID(ctx, input.EssenceID)
		if err != nil {
			if errors.Is(err, repository.ErrEssenceNotFound) {
				return domainerrors.ErrEssenceNotFound
			}

			return errors.Wrap(err, "failed to find essence")
		}

		if err := pool.CanCreateDemand(essence, amount); err != nil {
			return err
		}

		userName := user.FullName()
		if userName == "" {
			userName = fallbackUserName
		}

		demand = &entity.Demand{
			EssenceID:   essence.ID,
			UserID:      user.ID,
			UserName:    userName,
			EssenceName: essence.Name,
			EssenceCode: essence.Code,
			Category:    essence.Category,
			Amount:      amount,
			UnitPrice:   essence.Price,
			TotalPrice:  essence.Price.Mul(decimal.NewFromInt(amount)),
		}
		if err := demandRepo.Create(ctx, demand); err != nil {
			return errors.Wrap(err, "failed to create demand")
		}

		if err := essenceRepo.AddTotalDemand(ctx, essence.ID, amount); err != nil {
			return errors.Wrap(err, "failed to increment total demand")
		}

		after := *essence
		after.TotalDemand += amount
		if !pool.ReachedTarget(essence) && pool.ReachedTarget(&after) {
			confirmed = &service.EssenceConfirmedEvent{
				RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
				EssenceID:    essence.ID,
				EssenceName:  essence.Name,
				EssenceCode:  essence.Code,
				TotalDemand:  after.TotalDemand,
				TargetAmount: after.TargetAmount,
				ConfirmedAt:  time.Now().UTC(),
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create demand")
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)

	if confirmed != nil {
		// The demand is committed; a publish failure only loses the event.
		if err := srv.publisher.PublishEssenceConfirmed(ctx, confirmed); err != nil {
			logger.Error("failed to publish essence confirmation",
				slog.String("essenceID", confirmed.EssenceID),
				slog.Any("error", err),
			)
		}
	}

	logger.Info("Demand created",
		slog.String("demandID", demand.ID),
		slog.String("essenceID", demand.EssenceID),
		slog.Int64("amount", demand.Amount),
	)

	return usecase.NewDemandView(demand), nil
}

// CancelDemand removes a demand and restores the essence counter in the same
// transaction, so the counter cannot go stale when the delete succeeds.
func (srv *demandService) CancelDemand(ctx context.Context, actor service.Actor, demandID string) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		demandRepo := repoFactory.DemandRepo()
		essenceRepo := repoFactory.EssenceRepo()

		demand, err := demandRepo.FindByID(ctx, demandID)
		if err != nil {
			if errors.Is(err, repository.ErrDemandNotFound) {
				return domainerrors.ErrDemandNotFound
			}

			return errors.Wrap(err, "failed to find demand")
		}

		if err := srv.authz.Authorize(actor, service.ActionCancelDemand, demand.UserID); err != nil {
			return err
		}

		if err := essenceRepo.AddTotalDemand(ctx, demand.EssenceID, -demand.Amount); err != nil {
			return errors.Wrap(err, "failed to decrement total demand")
		}

		if err := demandRepo.Delete(ctx, demand.ID); err != nil {
			return errors.Wrap(err, "failed to delete demand")
		}

		srv.logger.Info("Demand cancelled",
			slog.String("demandID", demand.ID),
			slog.String("essenceID", demand.EssenceID),
			slog.String("actor", actor.UserID),
		)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to cancel demand")
	}

	return nil
}

// ListUserDemands returns one user's demand history with the profile screen's
// spend total (sum of per-demand unit prices).
func (srv *demandService) ListUserDemands(ctx context.Context, actor service.Actor, userID string) (*usecase.UserDemandsOutput, error) {
	if err := srv.authz.Authorize(actor, service.ActionListDemands, userID); err != nil {
		return nil, err
	}

	demands, err := srv.demands.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user demands")
	}

	total := decimal.Zero
	for _, d := range demands {
		total = total.Add(pool.UnitPrice(d))
	}

	return &usecase.UserDemandsOutput{
		Demands:    usecase.NewDemandViews(demands),
		TotalSpend: total,
	}, nil
}

// WatchLedger streams the full live demand ledger on every change.
func (srv *demandService) WatchLedger(ctx context.Context) (<-chan []*usecase.DemandView, error) {
	source, err := srv.demands.Watch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to watch demands")
	}

	views := make(chan []*usecase.DemandView)
	go func() {
		defer close(views)
		for demands := range source {
			select {
			case views <- usecase.NewDemandViews(demands):
			case <-ctx.Done():
				return
			}
		}
	}()

	return views, nil
}

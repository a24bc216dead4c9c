// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"regexp"

	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/pool"
	"esanspool/internal/domain/repository"
	"esanspool/internal/domain/service"
	"esanspool/internal/usecase"

	"github.com/pkg/errors"
)

// codePattern is the shape a catalog code must have: letters and digits only.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	essences  repository.EssenceRepository
	qrSvc     service.QRCodeService
	authz     service.Authorizer
	logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	txManager repository.TransactionManager,
	essences repository.EssenceRepository,
	qrSvc service.QRCodeService,
	authz service.Authorizer,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		txManager: txManager,
		essences:  essences,
		qrSvc:     qrSvc,
		authz:     authz,
		logger:    logger,
	}
}

// ListEssences returns the catalog filtered by the query, as derived views.
func (srv *catalogService) ListEssences(ctx context.Context, query pool.Query) ([]*usecase.EssenceView, error) {
	essences, err := srv.essences.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list essences")
	}

	return usecase.NewEssenceViews(pool.Filter(essences, query)), nil
}

// GetEssence returns one essence as a derived view.
func (srv *catalogService) GetEssence(ctx context.Context, id string) (*usecase.EssenceView, error) {
	essence, err := srv.essences.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEssenceNotFound) {
			return nil, domainerrors.ErrEssenceNotFound
		}

		return nil, errors.Wrap(err, "failed to find essence")
	}

	return usecase.NewEssenceView(essence), nil
}

// Categories returns the distinct categories for the filter bar.
func (srv *catalogService) Categories(ctx context.Context) ([]string, error) {
	essences, err := srv.essences.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list essences")
	}

	return pool.Categories(essences), nil
}

// CreateEssence adds a catalog item after validating the code.
func (srv *catalogService) CreateEssence(ctx context.Context, actor service.Actor, input *usecase.CreateEssenceInput) (*usecase.EssenceView, error) {
	if err := srv.authz.Authorize(actor, service.ActionManageCatalog, ""); err != nil {
		return nil, err
	}
	if !codePattern.MatchString(input.Code) {
		return nil, domainerrors.ErrInvalidEssenceCode
	}

	srv.logger.Info("Creating essence", slog.String("code", input.Code), slog.String("actor", actor.UserID))

	essence := &entity.Essence{
		Name:         input.Name,
		Code:         input.Code,
		Category:     input.Category,
		StockAmount:  input.StockAmount,
		TotalDemand:  0,
		TargetAmount: input.TargetAmount,
		Price:        input.Price,
	}
	if essence.TargetAmount <= 0 {
		essence.TargetAmount = entity.DefaultTargetAmount
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		essenceRepo := repoFactory.EssenceRepo()

		if err := srv.ensureCodeFree(ctx, essenceRepo, input.Code, ""); err != nil {
			return err
		}

		return essenceRepo.Create(ctx, essence)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create essence")
	}

	return usecase.NewEssenceView(essence), nil
}

// UpdateEssence edits a catalog item. Nil input fields are left untouched.
func (srv *catalogService) UpdateEssence(ctx context.Context, actor service.Actor, id string, input *usecase.UpdateEssenceInput) error {
	if err := srv.authz.Authorize(actor, service.ActionManageCatalog, ""); err != nil {
		return err
	}

	srv.logger.Info("Updating essence", slog.String("essenceID", id), slog.String("actor", actor.UserID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		essenceRepo := repoFactory.EssenceRepo()

		essence, err := essenceRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEssenceNotFound) {
				return domainerrors.ErrEssenceNotFound
			}

			return errors.Wrap(err, "failed to find essence")
		}

		if input.Code != nil && *input.Code != essence.Code {
			if !codePattern.MatchString(*input.Code) {
				return domainerrors.ErrInvalidEssenceCode
			}
			if err := srv.ensureCodeFree(ctx, essenceRepo, *input.Code, essence.ID); err != nil {
				return err
			}
			essence.Code = *input.Code
		}
		if input.Name != nil {
			essence.Name = *input.Name
		}
		if input.Category != nil {
			essence.Category = *input.Category
		}
		if input.StockAmount != nil {
			essence.StockAmount = *input.StockAmount
		}
		if input.Price != nil {
			essence.Price = *input.Price
		}
		if input.TargetAmount != nil && *input.TargetAmount > 0 {
			essence.TargetAmount = *input.TargetAmount
		}

		return essenceRepo.Update(ctx, essence)
	})
	if err != nil {
		return errors.Wrap(err, "failed to update essence")
	}

	return nil
}

// DeleteEssence removes an essence together with every referencing demand.
// Deleting an essence with no demands is a no-op on the ledger.
func (srv *catalogService) DeleteEssence(ctx context.Context, actor service.Actor, id string) error {
	if err := srv.authz.Authorize(actor, service.ActionManageCatalog, ""); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		demandRepo := repoFactory.DemandRepo()
		essenceRepo := repoFactory.EssenceRepo()

		demands, err := demandRepo.FindByEssenceID(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to list referencing demands")
		}
		for _, d := range demands {
			if err := demandRepo.Delete(ctx, d.ID); err != nil {
				return errors.Wrapf(err, "failed to delete demand %s", d.ID)
			}
		}

		if err := essenceRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete essence")
		}

		srv.logger.Info("Essence deleted",
			slog.String("essenceID", id),
			slog.Int("cascadedDemands", len(demands)),
			slog.String("actor", actor.UserID),
		)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete essence")
	}

	return nil
}

// WatchCatalog streams the full derived catalog on every change.
func (srv *catalogService) WatchCatalog(ctx context.Context) (<-chan []*usecase.EssenceView, error) {
	source, err := srv.essences.Watch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to watch essences")
	}

	views := make(chan []*usecase.EssenceView)
	go func() {
		defer close(views)
		for essences := range source {
			select {
			case views <- usecase.NewEssenceViews(essences):
			case <-ctx.Done():
				return
			}
		}
	}()

	return views, nil
}

// EssenceQR renders a printable PNG QR code linking to the essence.
func (srv *catalogService) EssenceQR(ctx context.Context, id string) ([]byte, error) {
	if _, err := srv.GetEssence(ctx, id); err != nil {
		return nil, err
	}

	png, err := srv.qrSvc.GenerateEssenceQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate essence QR code")
	}

	return png, nil
}

// ensureCodeFree checks catalog-code uniqueness, ignoring the essence with
// selfID when editing.
func (srv *catalogService) ensureCodeFree(ctx context.Context, repo repository.EssenceRepository, code, selfID string) error {
	existing, err := repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrEssenceNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to check essence code")
	}
	if existing.ID != selfID {
		return domainerrors.ErrEssenceCodeInUse
	}

	return nil
}

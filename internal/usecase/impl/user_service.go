package impl

import (
	"context"
	"log/slog"
	"regexp"

	"esanspool/config"
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/domain/repository"
	"esanspool/internal/domain/service"
	"esanspool/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// phonePattern matches an 11-digit phone number starting with 0.
var phonePattern = regexp.MustCompile(`^0[0-9]{10}$`)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	users     repository.UserRepository
	hasher    service.PasswordHasher
	tokenSvc  service.TokenService
	authz     service.Authorizer
	cfg       *config.Config
	logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	users repository.UserRepository,
	hasher service.PasswordHasher,
	tokenSvc service.TokenService,
	authz service.Authorizer,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager: txManager,
		users:     users,
		hasher:    hasher,
		tokenSvc:  tokenSvc,
		authz:     authz,
		cfg:       cfg,
		logger:    logger,
	}
}

// Register creates an account with role "user".
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.UserView, error) {
	if !phonePattern.MatchString(input.Phone) {
		return nil, domainerrors.ErrInvalidPhone
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	user := &entity.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		City:         input.City,
		District:     input.District,
		Neighborhood: input.Neighborhood,
		Address:      input.Address,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByEmail(ctx, input.Email); err == nil {
			return domainerrors.ErrUserAlreadyExists
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing email")
		}

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register user")
	}

	srv.logger.Info("User registered", slog.String("userID", user.ID))

	return usecase.NewUserView(user), nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	access, refresh, err := srv.tokenSvc.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.logger.Debug("User logged in", slog.String("userID", user.ID))

	return &usecase.LoginOutput{
		User:         usecase.NewUserView(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.LoginOutput, error) {
	token, err := srv.tokenSvc.ValidateToken(input.RefreshToken, srv.cfg.SecretKey.Refresh)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := srv.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	access, refresh, err := srv.tokenSvc.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	return &usecase.LoginOutput{
		User:         usecase.NewUserView(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// GetProfile returns one user's own account view.
func (srv *userService) GetProfile(ctx context.Context, userID string) (*usecase.UserView, error) {
	user, err := srv.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return usecase.NewUserView(user), nil
}

// ListUsers returns all registered accounts.
func (srv *userService) ListUsers(ctx context.Context, actor service.Actor) ([]*usecase.UserView, error) {
	if err := srv.authz.Authorize(actor, service.ActionManageUsers, ""); err != nil {
		return nil, err
	}

	users, err := srv.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	views := make([]*usecase.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, usecase.NewUserView(u))
	}

	return views, nil
}

// UpdateUser edits an account, including role promotion.
func (srv *userService) UpdateUser(ctx context.Context, actor service.Actor, id string, input *usecase.UpdateUserInput) error {
	if err := srv.authz.Authorize(actor, service.ActionManageUsers, ""); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.Role != nil {
			role := entity.Role(*input.Role)
			if !role.IsValid() {
				return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
			}
			user.Role = role
		}
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.Phone != nil {
			if !phonePattern.MatchString(*input.Phone) {
				return domainerrors.ErrInvalidPhone
			}
			user.Phone = *input.Phone
		}
		if input.City != nil {
			user.City = *input.City
		}
		if input.District != nil {
			user.District = *input.District
		}
		if input.Neighborhood != nil {
			user.Neighborhood = *input.Neighborhood
		}
		if input.Address != nil {
			user.Address = *input.Address
		}

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}

	srv.logger.Info("User updated", slog.String("userID", id), slog.String("actor", actor.UserID))

	return nil
}

// DeleteUser removes an account record.
func (srv *userService) DeleteUser(ctx context.Context, actor service.Actor, id string) error {
	if err := srv.authz.Authorize(actor, service.ActionManageUsers, ""); err != nil {
		return err
	}

	if err := srv.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.logger.Info("User deleted", slog.String("userID", id), slog.String("actor", actor.UserID))

	return nil
}

// EnsureDefaultAdmin creates the configured administrator account when
// absent, or promotes it when its stored role drifted.
func (srv *userService) EnsureDefaultAdmin(ctx context.Context) error {
	bootstrap := srv.cfg.Bootstrap
	if bootstrap == nil || bootstrap.AdminEmail == "" {
		srv.logger.Debug("Admin bootstrap not configured, skipping")

		return nil
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		admin, err := userRepo.FindByEmail(ctx, bootstrap.AdminEmail)
		if err == nil {
			if admin.Role == entity.RoleAdmin {
				return nil
			}
			admin.Role = entity.RoleAdmin
			srv.logger.Info("Promoting bootstrap account to admin", slog.String("userID", admin.ID))

			return userRepo.Update(ctx, admin)
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up bootstrap admin")
		}

		hash, err := srv.hasher.Hash(bootstrap.AdminPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash bootstrap password")
		}

		srv.logger.Info("Creating bootstrap admin account", slog.String("email", bootstrap.AdminEmail))

		return userRepo.Create(ctx, &entity.User{
			Email:        bootstrap.AdminEmail,
			PasswordHash: hash,
			Role:         entity.RoleAdmin,
			FirstName:    "Admin",
			LastName:     "User",
		})
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure default admin")
	}

	return nil
}

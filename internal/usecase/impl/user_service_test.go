package impl

import (
	"context"
	"testing"

	"esanspool/config"
	"esanspool/internal/domain/entity"
	domainerrors "esanspool/internal/domain/errors"
	"esanspool/internal/infra/auth"
	"esanspool/internal/infra/policy"
	"esanspool/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

func newUserWorld(t *testing.T, cfg *config.Config) (usecase.UserUsecase, *testWorld) {
	t.Helper()
	world := newTestWorld()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	svc := NewUserService(
		world.txManager,
		world.users,
		fakeHasher{},
		tokenSvc,
		policy.NewAuthorizer(),
		cfg,
		discardLogger(),
	)

	return svc, world
}

func registerInput(email string) *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Email:     email,
		Password:  "sifre123",
		FirstName: "Ayşe",
		LastName:  "Yılmaz",
		Phone:     "05321234567",
		City:      "İstanbul",
	}
}

func TestRegister(t *testing.T) {
	svc, world := newUserWorld(t, userConfig())
	ctx := context.Background()

	view, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "ayse@example.com", view.Email)
	assert.Equal(t, entity.RoleUser.String(), view.Role)

	stored, err := world.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:sifre123", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("ayse@example.com"))
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestRegister_InvalidPhone(t *testing.T) {
	svc, world := newUserWorld(t, userConfig())
	ctx := context.Background()

	for _, phone := range []string{"", "532123", "15321234567", "0532123456a"} {
		input := registerInput("ayse@example.com")
		input.Phone = phone
		_, err := svc.Register(ctx, input)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidPhone), "phone %q", phone)
	}

	users, err := world.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	out, err := svc.Login(ctx, &usecase.LoginInput{Email: "ayse@example.com", Password: "sifre123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "ayse@example.com", out.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "ayse@example.com", Password: "yanlis"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "yok@example.com", Password: "sifre123"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	session, err := svc.Login(ctx, &usecase.LoginInput{Email: "ayse@example.com", Password: "sifre123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: session.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, session.User.ID, refreshed.User.ID)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	session, err := svc.Login(ctx, &usecase.LoginInput{Email: "ayse@example.com", Password: "sifre123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: session.AccessToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	_, err = svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "bogus"})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestGetProfile(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	view, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", profile.FirstName)

	_, err = svc.GetProfile(ctx, "yok")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	_, err = svc.ListUsers(ctx, userActor)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	users, err := svc.ListUsers(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateUser(t *testing.T) {
	svc, world := newUserWorld(t, userConfig())
	ctx := context.Background()

	view, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	role := entity.RoleAdmin.String()
	city := "Ankara"
	err = svc.UpdateUser(ctx, adminActor, view.ID, &usecase.UpdateUserInput{Role: &role, City: &city})
	require.NoError(t, err)

	stored, err := world.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, stored.Role)
	assert.Equal(t, "Ankara", stored.City)
	assert.Equal(t, "Ayşe", stored.FirstName)
}

func TestUpdateUser_Validation(t *testing.T) {
	svc, _ := newUserWorld(t, userConfig())
	ctx := context.Background()

	view, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	badRole := "superuser"
	err = svc.UpdateUser(ctx, adminActor, view.ID, &usecase.UpdateUserInput{Role: &badRole})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	badPhone := "123"
	err = svc.UpdateUser(ctx, adminActor, view.ID, &usecase.UpdateUserInput{Phone: &badPhone})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidPhone))

	err = svc.UpdateUser(ctx, userActor, view.ID, &usecase.UpdateUserInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	err = svc.UpdateUser(ctx, adminActor, "yok", &usecase.UpdateUserInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestDeleteUser(t *testing.T) {
	svc, world := newUserWorld(t, userConfig())
	ctx := context.Background()

	view, err := svc.Register(ctx, registerInput("ayse@example.com"))
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, userActor, view.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, svc.DeleteUser(ctx, adminActor, view.ID))

	users, err := world.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	err = svc.DeleteUser(ctx, adminActor, "yok")
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestEnsureDefaultAdmin_NotConfigured(t *testing.T) {
	svc, world := newUserWorld(t, userConfig())

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))

	users, err := world.users.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestEnsureDefaultAdmin_CreatesAccount(t *testing.T) {
	cfg := userConfig()
	cfg.Bootstrap = &config.BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "cokgizli"}
	svc, world := newUserWorld(t, cfg)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := world.users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "hashed:cokgizli", admin.PasswordHash)

	// Second run is a no-op.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	users, err := world.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureDefaultAdmin_PromotesExistingAccount(t *testing.T) {
	cfg := userConfig()
	cfg.Bootstrap = &config.BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "cokgizli"}
	svc, world := newUserWorld(t, cfg)
	ctx := context.Background()

	input := registerInput("admin@example.com")
	view, err := svc.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser.String(), view.Role)

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	stored, err := world.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, stored.Role)
	// Existing credentials are kept.
	assert.Equal(t, "hashed:sifre123", stored.PasswordHash)
}

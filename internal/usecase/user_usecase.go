package usecase

import (
	"context"
	"time"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/service"
)

// UserUsecase defines account and session business operations.
type UserUsecase interface {
	// Register creates an account with role "user".
	Register(ctx context.Context, input *RegisterInput) (*UserView, error)

	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// RefreshToken exchanges a valid refresh token for a fresh pair.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*LoginOutput, error)

	// GetProfile returns one user's own account view.
	GetProfile(ctx context.Context, userID string) (*UserView, error)

	// ListUsers returns all registered accounts. Admin only.
	ListUsers(ctx context.Context, actor service.Actor) ([]*UserView, error)

	// UpdateUser edits an account, including role promotion. Admin only.
	UpdateUser(ctx context.Context, actor service.Actor, id string, input *UpdateUserInput) error

	// DeleteUser removes an account record. Admin only.
	DeleteUser(ctx context.Context, actor service.Actor, id string) error

	// EnsureDefaultAdmin creates the configured administrator account if it
	// does not exist, or promotes it when its role drifted. Run at startup.
	EnsureDefaultAdmin(ctx context.Context) error
}

// UserView is the client-facing shape of an account; it never carries the
// password hash.
type UserView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	City         string    `json:"city,omitempty"`
	District     string    `json:"district,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserView derives the view of one account.
func NewUserView(u *entity.User) *UserView {
	return &UserView{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role.String(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		City:         u.City,
		District:     u.District,
		Neighborhood: u.Neighborhood,
		Address:      u.Address,
		CreatedAt:    u.CreatedAt,
	}
}

// --- Input/Output DTOs ---

// RegisterInput defines the data required to register an account.
type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	City         string `json:"city"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	Address      string `json:"address"`
}

// LoginInput defines the credentials for a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenInput carries the refresh token to exchange.
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginOutput is the session issued after authentication.
type LoginOutput struct {
	User         *UserView `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// UpdateUserInput defines the account fields an administrator may edit.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Role         *string `json:"role,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	City         *string `json:"city,omitempty"`
	District     *string `json:"district,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	Address      *string `json:"address,omitempty"`
}

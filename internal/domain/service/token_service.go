package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a user.
	// The access token carries the user's role for stateless authorization.
	GenerateTokens(userID string, role string) (accessToken string, refreshToken string, err error)

	// ValidateToken checks an access or refresh token against the given secret
	// and returns its parsed form.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}

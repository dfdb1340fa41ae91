package services

import (
	"context"

	"github.com/trackmint/expense_tracker_app/internal/dto"
)

// TokenSvcFacade issues and rotates authentication tokens.
type TokenSvcFacade interface {
	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPairResponse, error)
	// Refresh validates a refresh token against its stored hash and rotates it.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	// GoogleLogin validates a Google ID token and issues a token pair for the
	// matching (or newly provisioned) local user.
	GoogleLogin(ctx context.Context, idToken string) (*dto.TokenPairResponse, error)
	// ExchangeGoogleCode exchanges an OAuth authorization code for Google
	// tokens, validates the contained ID token and issues a token pair.
	ExchangeGoogleCode(ctx context.Context, code string) (*dto.TokenPairResponse, error)
}

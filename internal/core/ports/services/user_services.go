package services

import (
	"context"
	"time"

	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	"github.com/trackmint/expense_tracker_app/internal/dto"
)

// UserSvcFacade defines the operations the user service exposes.
type UserSvcFacade interface {
	// RegisterUser validates and creates a new local user account.
	// Password mismatch and case-insensitive duplicate username/email
	// surface as validation errors.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindOrCreateGoogleUser resolves a Google-verified email to a local
	// user, provisioning one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, email string, name string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	portsrepo "github.com/trackmint/expense_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/trackmint/expense_tracker_app/internal/core/ports/services"
	"github.com/trackmint/expense_tracker_app/internal/dto"
	"github.com/trackmint/expense_tracker_app/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser validates the registration payload and creates a local user.
// Uniqueness of username and email is checked case-insensitively; the
// confirmation password is compared and then discarded, never persisted.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	if req.Password != req.Password2 {
		return nil, apperrors.NewValidationError("password2", "Passwords do not match.")
	}

	if _, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.NewValidationError("username", "Username already exists.")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewValidationError("email", "Email already exists.")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		IsSuperuser:  false,
		AuthProvider: domain.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race against a concurrent registration; the unique
			// indexes caught it. Attribute the field by the violated
			// constraint.
			var dup *apperrors.DuplicateError
			if errors.As(err, &dup) && strings.Contains(dup.Constraint, "email") {
				return nil, apperrors.NewValidationError("email", "Email already exists.")
			}
			return nil, apperrors.NewValidationError("username", "Username already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a Google-verified email to a local user.
// First sign-in provisions an account with no password; the username is
// derived from the email local part and suffixed when already taken.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, email string, name string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newUser := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		IsSuperuser:  false,
		AuthProvider: domain.ProviderGoogle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to provision google user: %w", err)
	}
	return &newUser, nil
}

func (s *userService) availableUsername(ctx context.Context, email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	if base == "" {
		base = "user"
	}
	candidate := base
	if _, err := s.userRepo.FindUserByUsername(ctx, candidate); errors.Is(err, apperrors.ErrNotFound) {
		return candidate, nil
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to check username availability: %w", err)
	}
	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return "", err
	}
	return base + "_" + suffix, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

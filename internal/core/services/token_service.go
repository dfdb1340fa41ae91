package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	portssvc "github.com/trackmint/expense_tracker_app/internal/core/ports/services"
	"github.com/trackmint/expense_tracker_app/internal/dto"
	"github.com/trackmint/expense_tracker_app/internal/platform/config"
	"github.com/trackmint/expense_tracker_app/internal/utils"
)

// idTokenValidator matches idtoken.Validate, injectable for tests.
type idTokenValidator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// codeExchanger matches oauth2.Config.Exchange, injectable for tests.
type codeExchanger func(ctx context.Context, code string) (*oauth2.Token, error)

// tokenService implements TokenSvcFacade. Access tokens are short-lived JWTs;
// refresh tokens are longer-lived JWTs signed with a separate secret whose
// SHA-256 hash is stored on the user row, so issuing a new pair invalidates
// the previous refresh token.
type tokenService struct {
	cfg             *config.Config
	userService     portssvc.UserSvcFacade
	validateIDToken idTokenValidator
	exchangeCode    codeExchanger
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
	return &tokenService{
		cfg:             cfg,
		userService:     userService,
		validateIDToken: idtoken.Validate,
		exchangeCode: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return oauthConfig.Exchange(ctx, code)
		},
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// Login verifies credentials and issues a token pair. Unknown username and
// wrong password are indistinguishable to the caller.
func (s *tokenService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := s.userService.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve user for login: %w", err)
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh validates a refresh token, compares it against the stored hash and
// rotates it.
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := utils.ParseRefreshJWT(refreshToken, s.cfg.RefreshTokenSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrRefreshTokenExpired
		}
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve user for refresh: %w", err)
	}

	if user.RefreshTokenHash == nil || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareRefreshTokenHash(refreshToken, *user.RefreshTokenHash) {
		// Token was already rotated or never issued by us
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueTokenPair(ctx, user)
}

// GoogleLogin validates a Google ID token and issues a token pair for the
// matching local user, provisioning one on first sign-in.
func (s *tokenService) GoogleLogin(ctx context.Context, idTokenString string) (*dto.TokenPairResponse, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	payload, err := s.validateIDToken(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, apperrors.ErrUnauthorized
	}
	name, _ := payload.Claims["name"].(string)

	user, err := s.userService.FindOrCreateGoogleUser(ctx, email, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve google user: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// ExchangeGoogleCode exchanges an OAuth authorization code for Google tokens
// and signs the caller in with the ID token Google returned.
func (s *tokenService) ExchangeGoogleCode(ctx context.Context, code string) (*dto.TokenPairResponse, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	googleToken, err := s.exchangeCode(ctx, code)
	if err != nil {
		// An invalid or expired code is an authentication failure
		return nil, apperrors.ErrUnauthorized
	}

	idTokenString, ok := googleToken.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return nil, apperrors.ErrUnauthorized
	}

	return s.GoogleLogin(ctx, idTokenString)
}

func (s *tokenService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.TokenPairResponse, error) {
	access, err := utils.GenerateAccessJWT(user.UserID, user.Username, user.IsSuperuser, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, refreshExpiry, err := utils.GenerateRefreshJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refresh), refreshExpiry); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &dto.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

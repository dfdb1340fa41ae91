package dto

import (
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
)

// RegisterUserRequest carries the self-service registration payload.
// Password2 is a confirmation field, validated against Password and discarded.
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// RegisterUserResponse confirms a successful registration.
type RegisterUserResponse struct {
	Message string `json:"message"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token used to mint a new token pair.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// GoogleLoginRequest carries a Google-issued ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleExchangeRequest carries the OAuth authorization code returned to the
// frontend by Google's consent screen.
type GoogleExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	UserID      string `json:"userID"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// ToUserResponse converts a domain.User to its public projection.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	}
}

package domain

import "time"

// AuthProvider identifies how a user account was provisioned.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID       string       `json:"userID"` // Primary Key (UUID)
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash *string      `json:"-"` // nil for externally provisioned users
	IsSuperuser  bool         `json:"isSuperuser"`
	AuthProvider AuthProvider `json:"authProvider"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// Hash and expiry of the currently valid refresh token, nil when none issued.
	RefreshTokenHash       *string    `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// Principal is the authenticated identity attached to a request.
// It is passed explicitly into the service layer, never read from ambient state.
type Principal struct {
	UserID      string
	Username    string
	IsSuperuser bool
}

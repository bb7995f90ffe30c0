// Package user defines the user domain model.
package user

import (
	"net/mail"
	"time"

	"github.com/stridehq/stride/internal/domain"
)

// MaxHoursPerWeek caps availableHoursPerWeek at the number of hours in a week.
const MaxHoursPerWeek = 168

// User represents a registered account that owns goals and planning sessions.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	ProfileImageURL       string    `json:"profileImageUrl,omitempty"`
	Timezone              string    `json:"timezone,omitempty"`
	AvailableHoursPerWeek float64   `json:"availableHoursPerWeek"`
	PasswordHash          string    `json:"-"` // never serialized
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Email                 string  `json:"email"`
	Name                  string  `json:"name"`
	Password              string  `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	Timezone              string  `json:"timezone,omitempty"`
	AvailableHoursPerWeek float64 `json:"availableHoursPerWeek"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Email == "" {
		return domain.Validationf("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return domain.Validationf("invalid email format")
	}
	if r.Name == "" {
		return domain.Validationf("name is required")
	}
	if len(r.Password) < 8 {
		return domain.Validationf("password must be at least 8 characters")
	}
	if r.AvailableHoursPerWeek < 0 || r.AvailableHoursPerWeek > MaxHoursPerWeek {
		return domain.Validationf("availableHoursPerWeek must be between 0 and %d", MaxHoursPerWeek)
	}
	return nil
}

// UpdateRequest is the input for updating an existing user. Nil fields are
// left unchanged. Email is immutable post-create and therefore absent here.
type UpdateRequest struct {
	Name                  *string  `json:"name,omitempty"`
	ProfileImageURL       *string  `json:"profileImageUrl,omitempty"`
	Timezone              *string  `json:"timezone,omitempty"`
	AvailableHoursPerWeek *float64 `json:"availableHoursPerWeek,omitempty"`
}

// Validate checks range constraints on the provided fields.
func (r *UpdateRequest) Validate() error {
	if r.AvailableHoursPerWeek != nil {
		if *r.AvailableHoursPerWeek < 0 || *r.AvailableHoursPerWeek > MaxHoursPerWeek {
			return domain.Validationf("availableHoursPerWeek must be between 0 and %d", MaxHoursPerWeek)
		}
	}
	if r.Name != nil && *r.Name == "" {
		return domain.Validationf("name must not be empty")
	}
	return nil
}

// LoginRequest is the input for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return domain.Validationf("email is required")
	}
	if r.Password == "" {
		return domain.Validationf("password is required")
	}
	return nil
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string `json:"accessToken"` //nolint:gosec // response field, not a hardcoded secret
	ExpiresIn   int    `json:"expiresIn"`   // seconds until the access token expires
	User        User   `json:"user"`
}

// TokenClaims contains the JWT payload fields.
type TokenClaims struct {
	UserID   string `json:"sub"`
	Email    string `json:"email"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
}

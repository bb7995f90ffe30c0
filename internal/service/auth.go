// Package service contains the application services wiring domain logic to
// the persistence, planner, cache, and event-bus ports.
package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/domain"
	"github.com/stridehq/stride/internal/domain/goal"
	"github.com/stridehq/stride/internal/domain/user"
	"github.com/stridehq/stride/internal/port/database"
)

// AuthService manages user accounts and access tokens.
type AuthService struct {
	store      database.Store
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(store database.Store, cfg config.Auth) *AuthService {
	return &AuthService{
		store:      store,
		secret:     []byte(cfg.Secret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *user.CreateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domain.Conflictf("email_taken", "email is already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.store.CreateUser(ctx, &user.User{
		Email:                 req.Email,
		Name:                  req.Name,
		Timezone:              req.Timezone,
		AvailableHoursPerWeek: req.AvailableHoursPerWeek,
		PasswordHash:          string(hash),
	})
}

// Login authenticates a user and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorizedf("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.Unauthorizedf("invalid credentials")
	}

	token, err := s.signJWT(u)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	return &user.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        *u,
	}, nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateUser applies an update request. Lowering availableHoursPerWeek runs
// the hour-budget check against the user's current active goals and is
// rejected when the new value no longer covers them.
func (s *AuthService) UpdateUser(ctx context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AvailableHoursPerWeek != nil && *req.AvailableHoursPerWeek < u.AvailableHoursPerWeek {
		goals, err := s.store.ListGoals(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := goal.CheckAvailableHours(*req.AvailableHoursPerWeek, goals); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.ProfileImageURL != nil {
		u.ProfileImageURL = *req.ProfileImageURL
	}
	if req.Timezone != nil {
		u.Timezone = *req.Timezone
	}
	if req.AvailableHoursPerWeek != nil {
		u.AvailableHoursPerWeek = *req.AvailableHoursPerWeek
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ValidateAccessToken verifies a token signature and expiry and returns its
// claims.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*user.TokenClaims, error) {
	claims, err := s.verifyJWT(tokenStr)
	if err != nil {
		return nil, domain.Unauthorizedf("invalid token")
	}
	if time.Now().Unix() > claims.Expiry {
		return nil, domain.Unauthorizedf("token expired")
	}
	return claims, nil
}

// jwtHeader is the fixed base64url-encoded header for HS256.
var jwtHeader = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (s *AuthService) signJWT(u *user.User) (string, error) {
	now := time.Now()
	claims := user.TokenClaims{
		UserID:   u.ID,
		Email:    u.Email,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(s.tokenTTL).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := jwtHeader + "." + base64URLEncode(payload)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingInput))
	sig := base64URLEncode(mac.Sum(nil))

	return signingInput + "." + sig, nil
}

func (s *AuthService) verifyJWT(tokenStr string) (*user.TokenClaims, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	expectedSig := base64URLEncode(mac.Sum(nil))
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return nil, errors.New("invalid signature")
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, err
	}

	var claims user.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

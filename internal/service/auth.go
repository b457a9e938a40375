// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and context, never *http.Request, and return
// domain errors (apperror.*), never status codes. The handler translates in
// both directions. Services depend on the repository INTERFACES, so tests run
// against in-memory fakes and the sqlite package is never imported here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/schematic-hub/internal/apperror"
	"github.com/sakif/schematic-hub/internal/auth"
	"github.com/sakif/schematic-hub/internal/model"
	"github.com/sakif/schematic-hub/internal/repository"
)

const (
	MaxUsernameLength = 80
)

// invalidCredentialsMsg is the single message for every login failure.
// Unknown username and wrong password are indistinguishable to the caller,
// which is what prevents username enumeration through the login endpoint.
const invalidCredentialsMsg = "invalid credentials"

// dummyHash is a real bcrypt hash of an unguessable throwaway value. Login
// compares against it when the username does not exist, so the
// unknown-username path burns the same bcrypt work as the wrong-password
// path and the two failures sit in the same response-time class.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService implements registration and login on top of the identity store.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// The username is trimmed but the password is taken byte-exact — trimming a
// password would mean login must trim identically forever. Duplicate
// usernames surface as apperror.ErrConflict straight from the store; there is
// no existence pre-check here because only the store's UNIQUE constraint can
// arbitrate races correctly.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Over-long passwords land here; anything else is a bcrypt failure.
		return nil, apperror.ValidationFailed("password", "password is not usable")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and mints a session token.
//
// Both failure modes — unknown username and wrong password — return the same
// apperror.Unauthorized with the same message, after the same amount of
// bcrypt work. Nothing about the response reveals which factor was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		// Burn the bcrypt cost anyway so this path is not measurably faster
		// than a wrong password for an existing user.
		_ = s.passwords.Verify(dummyHash, password)
		return nil, apperror.Unauthorized(invalidCredentialsMsg)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(invalidCredentialsMsg)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// TokenTTL returns the session token lifetime, so the HTTP layer can set the
// cookie's MaxAge to match without importing the token service directly.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// GetUserByID returns the user for the given internal id. Used by the
// /api/me handler after the middleware has validated the session.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("service/auth: user id must be positive")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id, err)
	}

	return user, nil
}

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// SESSION TOKENS:
// A successful login mints a signed JWT carrying the user's id in the "sub"
// claim. The handler stores it in an HttpOnly cookie; on later requests the
// middleware validates the signature and expiry without any database lookup.
// The server holds no session table — the signature IS the session state.

const issuer = "schematic-hub"

// TokenService signs and validates session tokens with an HMAC-SHA256 secret.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data in
// production, e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims embeds jwt.RegisteredClaims; we only use the standard fields.
// Subject holds the user's id as a decimal string, ID (jti) is a fresh xid so
// every issued token is distinguishable even within the same second.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user.
func (s *TokenService) Generate(userID int64) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// TTL returns the configured token lifetime. Handlers use it to set the
// session cookie's MaxAge to match the token's expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Validate parses and verifies a token string and returns the user id it
// encodes.
//
// Checks performed: HMAC signature, expiry, issuer, and the signing algorithm.
// jwt.WithValidMethods pins the algorithm to HS256 — without it, an attacker
// could attempt an algorithm-confusion attack with a differently-signed token.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: token subject is not a user id")
	}

	return userID, nil
}

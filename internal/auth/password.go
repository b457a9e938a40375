// Package auth provides credential hashing, session token issuance, and the
// middleware that turns a session cookie into a request-scoped user identity.
//
// WHY BCRYPT?
// bcrypt is deliberately slow, which is the point: a stolen database of bcrypt
// hashes is expensive to brute-force. It also generates a random salt per hash
// and embeds it in the output, so no separate salt column is needed and two
// users with the same password store different hashes.
//
// NEVER store passwords in plain text or with fast digests (MD5, SHA-256).
// A fast digest is crackable at GPU speed; bcrypt at cost 12 is not.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on a
// modern server — negligible for a login, brutal for an attacker.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in tests —
// cost 4 (the bcrypt minimum) makes tests run in milliseconds without
// changing any of the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom bcrypt
// cost. Use cost 4 in tests to avoid the ~250ms overhead per hash.
//
// Do NOT use in production — low costs are far too weak.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is self-contained (version, cost, salt, hash) and is stored
// directly in the users table. Returns an error for plaintexts over 72 bytes,
// which bcrypt would otherwise silently truncate.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on match, a non-nil error otherwise.
//
// bcrypt.CompareHashAndPassword is constant-time internally, so response
// timing does not reveal how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

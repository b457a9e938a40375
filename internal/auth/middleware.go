package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "token"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means no other package can read or shadow the
// userID value we store in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// It reads the session token from the HttpOnly cookie, validates it, and
// stores the user id in the request context. If the token is missing or
// invalid, it returns 401 Unauthorized and stops the chain — the wrapped
// handler never runs for anonymous requests.
//
// This is the single chokepoint every listing, upload, and download request
// passes through: handlers downstream can assume UserIDFromContext succeeds.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context. Returns (0, false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID reads the session cookie and validates the token in it.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session at all, just anonymous
		return 0, err
	}

	return tokens.Validate(cookie.Value)
}

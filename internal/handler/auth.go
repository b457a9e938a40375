// Package handler contains the HTTP layer: request parsing, response
// serialization, cookies. Business rules live in internal/service; handlers
// are the glue between HTTP and the services.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/schematic-hub/internal/auth"
	"github.com/sakif/schematic-hub/internal/service"
)

// AuthHandler exposes registration, login, logout, and the current-user
// lookup over HTTP.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// credentials is the request body for both register and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
// Body: {"username": "...", "password": "..."}
// 201 on success; 409 when the username is taken; 400 on validation failures.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Warn("register: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be JSON with username and password",
		})
		return
	}

	if _, err := h.auth.Register(r.Context(), creds.Username, creds.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// HandleLogin verifies credentials and establishes a session.
//
// HTTP: POST /api/login
// Body: {"username": "...", "password": "..."}
//
// On success the session token is stored in an HttpOnly cookie:
//   - HttpOnly: JavaScript cannot read it (XSS protection)
//   - SameSite=Lax: not sent on cross-site POSTs (CSRF protection)
//   - MaxAge matches the token's expiry, so browser and server agree on
//     when the session ends
//
// On failure: 401 with the same body whether the username or the password
// was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.logger.Warn("login: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be JSON with username and password",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production behind HTTPS
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/logout
//
// Sessions are stateless JWTs, so "logout" means deleting the client-side
// cookie; the token itself stays valid until its expiry, but without the
// cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: required (RequireAuth sets the user id in the request context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("me: user lookup failed", slog.Int64("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

package middleware

import (
	"context"
	"net/http"

	"brainrank/internal/session"
	"brainrank/internal/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// Authenticator resolves the requesting user from the session cookie, falling
// back to a Bearer JWT for non-browser clients.
type Authenticator struct {
	Sessions   *session.Store
	CookieName string
	JWTSecret  string
}

// ResolveUserID returns the authenticated user ID, or false when the request
// carries no valid credentials.
func (a *Authenticator) ResolveUserID(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(a.CookieName); err == nil && cookie.Value != "" {
		if userID, err := a.Sessions.Get(r.Context(), cookie.Value); err == nil {
			return userID, true
		}
	}
	claims, err := utils.VerifyToken(r, a.JWTSecret)
	if err != nil {
		return "", false
	}
	userID, err := utils.UserIDFromClaims(claims)
	if err != nil {
		return "", false
	}
	return userID, true
}

// Require rejects unauthenticated requests and stores the user ID in the
// request context for handlers downstream.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.ResolveUserID(r)
		if !ok {
			utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID retrieves the authenticated user ID stored by Require.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

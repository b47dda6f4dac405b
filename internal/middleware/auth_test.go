package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brainrank/internal/session"
	"brainrank/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &Authenticator{
		Sessions:   session.NewStore(client, time.Hour),
		CookieName: "brainrank_session",
		JWTSecret:  "test-secret",
	}
}

func TestResolveUserID_SessionCookie(t *testing.T) {
	auth := newAuthenticator(t)

	sessionID, err := auth.Sessions.Create(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "brainrank_session", Value: sessionID})

	userID, ok := auth.ResolveUserID(req)
	if !ok || userID != "user-123" {
		t.Fatalf("expected user-123, got %q (ok=%v)", userID, ok)
	}
}

func TestResolveUserID_BearerFallback(t *testing.T) {
	auth := newAuthenticator(t)

	token, err := utils.IssueToken("user-456", "alice", "test-secret")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	userID, ok := auth.ResolveUserID(req)
	if !ok || userID != "user-456" {
		t.Fatalf("expected user-456, got %q (ok=%v)", userID, ok)
	}
}

func TestResolveUserID_StaleCookieFallsBackToBearer(t *testing.T) {
	auth := newAuthenticator(t)

	token, err := utils.IssueToken("user-789", "alice", "test-secret")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "brainrank_session", Value: "stale-session-id"})
	req.Header.Set("Authorization", "Bearer "+token)

	userID, ok := auth.ResolveUserID(req)
	if !ok || userID != "user-789" {
		t.Fatalf("expected bearer fallback, got %q (ok=%v)", userID, ok)
	}
}

func TestResolveUserID_NoCredentials(t *testing.T) {
	auth := newAuthenticator(t)

	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.ResolveUserID(req); ok {
		t.Fatalf("expected anonymous request to fail resolution")
	}
}

func TestRequire(t *testing.T) {
	auth := newAuthenticator(t)

	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.Require(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("passes user through context", func(t *testing.T) {
		sessionID, err := auth.Sessions.Create(context.Background(), "user-123")
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "brainrank_session", Value: sessionID})

		rec := httptest.NewRecorder()
		auth.Require(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured != "user-123" {
			t.Fatalf("expected user id in context, got %q", captured)
		}
	})
}

func TestUserID_MissingFromContext(t *testing.T) {
	if _, ok := UserID(context.Background()); ok {
		t.Fatalf("expected false for a bare context")
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brainrank/internal/middleware"
	"brainrank/internal/models"
	"brainrank/internal/repositories"
	"brainrank/internal/session"
	"brainrank/internal/testhelpers"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userFixture struct {
	db       *gorm.DB
	router   *chi.Mux
	sessions *session.Store
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sessions := session.NewStore(client, time.Hour)
	auth := &middleware.Authenticator{
		Sessions:   sessions,
		CookieName: "brainrank_session",
		JWTSecret:  "test-secret",
	}
	h := &UserHandler{Users: &repositories.UserRepository{DB: db}, Logger: zap.NewNop()}

	r := chi.NewRouter()
	r.Get("/api/users", h.List)
	r.With(auth.Require).Put("/api/users/{id}", h.Update)

	return &userFixture{db: db, router: r, sessions: sessions}
}

func (f *userFixture) seedUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func (f *userFixture) updateAs(t *testing.T, caller *models.User, targetID, body string) *httptest.ResponseRecorder {
	t.Helper()
	sessionID, err := f.sessions.Create(context.Background(), caller.ID)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	req := httptest.NewRequest(http.MethodPut, "/api/users/"+targetID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "brainrank_session", Value: sessionID})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListUsers_PublicFieldsOnly(t *testing.T) {
	f := newUserFixture(t)
	f.seedUser(t, "alice", models.RoleAdmin)
	f.seedUser(t, "bob", models.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if _, leaked := u["email"]; leaked {
			t.Fatalf("email must not appear in the public listing: %v", u)
		}
		if _, leaked := u["role"]; leaked {
			t.Fatalf("role must not appear in the public listing: %v", u)
		}
	}
}

func TestUpdateUser_RequiresAuth(t *testing.T) {
	f := newUserFixture(t)
	alice := f.seedUser(t, "alice", models.RoleMember)

	req := httptest.NewRequest(http.MethodPut, "/api/users/"+alice.ID,
		strings.NewReader(`{"username":"alice2","email":"alice@example.com"}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUpdateUser_SelfOnlyForMembers(t *testing.T) {
	f := newUserFixture(t)
	alice := f.seedUser(t, "alice", models.RoleMember)
	bob := f.seedUser(t, "bob", models.RoleMember)

	rec := f.updateAs(t, alice, bob.ID, `{"username":"hacked","email":"bob@example.com"}`)
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "You can only update your own profile") {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.updateAs(t, alice, alice.ID, `{"username":"alice2","email":"alice@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("self update failed: %d %s", rec.Code, rec.Body.String())
	}

	var updated models.User
	if err := f.db.First(&updated, "id = ?", alice.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if updated.Username != "alice2" {
		t.Fatalf("expected username persisted, got %q", updated.Username)
	}
}

func TestUpdateUser_RoleChangeIsAdminOnly(t *testing.T) {
	f := newUserFixture(t)
	admin := f.seedUser(t, "admin", models.RoleAdmin)
	alice := f.seedUser(t, "alice", models.RoleMember)

	rec := f.updateAs(t, alice, alice.ID, `{"username":"alice","email":"alice@example.com","role":"ADMIN"}`)
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "Only admins can change user roles") {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.updateAs(t, admin, alice.ID, `{"username":"alice","email":"alice@example.com","role":"ADMIN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin promotion failed: %d %s", rec.Code, rec.Body.String())
	}

	var promoted models.User
	if err := f.db.First(&promoted, "id = ?", alice.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if promoted.Role != models.RoleAdmin {
		t.Fatalf("expected promotion persisted, got %s", promoted.Role)
	}
}

func TestUpdateUser_LastAdminCannotBeDemoted(t *testing.T) {
	f := newUserFixture(t)
	admin := f.seedUser(t, "admin", models.RoleAdmin)

	rec := f.updateAs(t, admin, admin.ID, `{"username":"admin","email":"admin@example.com","role":"MEMBER"}`)
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "At least one admin account must remain in the system") {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// With a second admin, the demotion goes through.
	f.seedUser(t, "admin2", models.RoleAdmin)
	rec = f.updateAs(t, admin, admin.ID, `{"username":"admin","email":"admin@example.com","role":"MEMBER"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("demotion failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateUser_ConflictMessages(t *testing.T) {
	f := newUserFixture(t)
	alice := f.seedUser(t, "alice", models.RoleMember)
	f.seedUser(t, "bob", models.RoleMember)

	rec := f.updateAs(t, alice, alice.ID, `{"username":"alice","email":"bob@example.com"}`)
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "Email is already in use by another account") {
		t.Fatalf("expected email conflict, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.updateAs(t, alice, alice.ID, `{"username":"bob","email":"alice@example.com"}`)
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "Username is already in use by another account") {
		t.Fatalf("expected username conflict, got %d: %s", rec.Code, rec.Body.String())
	}
}

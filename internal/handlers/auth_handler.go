package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"brainrank/internal/config"
	"brainrank/internal/middleware"
	"brainrank/internal/models"
	"brainrank/internal/repositories"
	"brainrank/internal/session"
	"brainrank/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler manages registration, login and the password reset flow.
type AuthHandler struct {
	Users    *repositories.UserRepository
	Stats    *repositories.StatsRepository
	Tokens   *repositories.TokenRepository
	Sessions *session.Store
	Cfg      *config.Config
	Logger   *zap.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	User  models.PublicUser `json:"user"`
	Role  models.UserRole   `json:"role"`
	Token string            `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if len(req.Username) < 3 || len(req.Username) > 20 {
		utils.JSONError(w, http.StatusBadRequest, "Username must be between 3 and 20 characters")
		return
	}
	if !utils.IsValidEmail(req.Email) {
		utils.JSONError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	if len(req.Password) < 6 {
		utils.JSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if existing, err := h.Users.GetUserByEmail(req.Email); err == nil && existing != nil {
		utils.JSONError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	if existing, err := h.Users.GetUserByUsername(req.Username); err == nil && existing != nil {
		utils.JSONError(w, http.StatusConflict, "This username is already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// The first registrant bootstraps the admin role.
	count, err := h.Users.CountUsers()
	if err != nil {
		h.Logger.Error("failed to count users", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	role := models.RoleMember
	if count == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := h.Users.CreateUser(user); err != nil {
		h.Logger.Error("failed to create user", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	if err := h.Stats.UpsertStats(&models.UserStats{UserID: user.ID}); err != nil {
		h.Logger.Error("failed to create initial stats", zap.String("userId", user.ID), zap.Error(err))
	}

	h.respondWithSession(w, r, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Please enter your username or email and password")
		return
	}

	// Exact email match wins, then username.
	user, err := h.Users.GetUserByEmail(req.Identifier)
	if err == repositories.ErrUserNotFound {
		user, err = h.Users.GetUserByUsername(req.Identifier)
	}
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid username/email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid username/email or password")
		return
	}

	h.respondWithSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.Cfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.Logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Current reports the authenticated user, or null for anonymous requests.
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request, auth *middleware.Authenticator) {
	userID, ok := auth.ResolveUserID(r)
	if !ok {
		utils.JSON(w, http.StatusOK, nil)
		return
	}
	user, err := h.Users.GetUserByID(userID)
	if err != nil {
		utils.JSON(w, http.StatusOK, nil)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"avatarUrl": user.AvatarURL,
		"createdAt": user.CreatedAt,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails have accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !utils.IsValidEmail(req.Email) {
		utils.JSONError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}

	msg := map[string]string{"message": "If the email exists, a reset link has been sent"}

	user, err := h.Users.GetUserByEmail(req.Email)
	if err != nil {
		utils.JSON(w, http.StatusOK, msg)
		return
	}

	if err := h.Tokens.DeleteForUser(user.ID); err != nil {
		h.Logger.Error("failed to clear old reset tokens", zap.Error(err))
		utils.JSON(w, http.StatusOK, msg)
		return
	}
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(h.Cfg.ResetTokenTTL),
	}
	if err := h.Tokens.Create(token); err != nil {
		h.Logger.Error("failed to create reset token", zap.Error(err))
		utils.JSON(w, http.StatusOK, msg)
		return
	}

	resetLink := h.Cfg.AppURL + "/reset-password?token=" + token.Token
	body := utils.PasswordResetBody(h.Cfg.AppName, resetLink)
	if err := utils.SendEmail(h.Cfg.SMTP, h.Cfg.AppName, user.Email, "Reset your password - "+h.Cfg.AppName, body); err != nil {
		h.Logger.Warn("failed to send reset email", zap.String("userId", user.ID), zap.Error(err))
	}
	utils.JSON(w, http.StatusOK, msg)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(req.Password) < 6 {
		utils.JSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	token, err := h.Tokens.GetByToken(req.Token)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if time.Now().After(token.ExpiresAt) {
		_ = h.Tokens.DeleteByID(token.ID)
		utils.JSONError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	user, err := h.Users.GetUserByID(token.UserID)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	user.PasswordHash = string(hash)
	if err := h.Users.UpdateUser(user); err != nil {
		h.Logger.Error("failed to update password", zap.String("userId", user.ID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	// Single use.
	if err := h.Tokens.DeleteByID(token.ID); err != nil {
		h.Logger.Warn("failed to delete consumed reset token", zap.Error(err))
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	sessionID, err := h.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("failed to create session", zap.String("userId", user.ID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	token, err := utils.IssueToken(user.ID, user.Username, h.Cfg.SessionSecret)
	if err != nil {
		h.Logger.Error("failed to sign token", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to establish session")
		return
	}
	utils.JSON(w, status, authResponse{User: user.Public(), Role: user.Role, Token: token})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"brainrank/internal/middleware"
	"brainrank/internal/models"
	"brainrank/internal/repositories"
	"brainrank/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler serves the user directory and profile updates.
type UserHandler struct {
	Users  *repositories.UserRepository
	Logger *zap.Logger
}

// List returns every user's public fields for the friend picker.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers()
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	utils.JSON(w, http.StatusOK, public)
}

type updateUserRequest struct {
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	AvatarURL *string          `json:"avatarUrl"`
	Role      *models.UserRole `json:"role"`
	Password  *string          `json:"password"`
}

// Update edits a profile. Members may only edit themselves; role changes are
// admin-only and demoting the last admin is refused.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	if !utils.IsValidUUID(targetID) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	callerID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	caller, err := h.Users.GetUserByID(callerID)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	isAdmin := caller.Role == models.RoleAdmin
	if !isAdmin && caller.ID != targetID {
		utils.JSONError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req updateUserRequest
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
		utils.JSONError(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	if req.Role != nil && !isAdmin {
		utils.JSONError(w, http.StatusForbidden, "Only admins can change user roles")
		return
	}
	if req.Password != nil && len(*req.Password) < 6 {
		utils.JSONError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	target, err := h.Users.GetUserByID(targetID)
	if err == repositories.ErrUserNotFound {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to load user", zap.String("userId", targetID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	if req.Role != nil && *req.Role == models.RoleMember && target.Role == models.RoleAdmin {
		admins, err := h.Users.CountAdmins()
		if err != nil {
			h.Logger.Error("failed to count admins", zap.Error(err))
			utils.JSONError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		if admins <= 1 {
			utils.JSONError(w, http.StatusConflict, "At least one admin account must remain in the system")
			return
		}
	}

	conflict, err := h.Users.FindConflict(targetID, req.Email, req.Username)
	if err != nil {
		h.Logger.Error("failed to check conflicts", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if conflict != nil {
		if conflict.Email == req.Email {
			utils.JSONError(w, http.StatusConflict, "Email is already in use by another account")
			return
		}
		utils.JSONError(w, http.StatusConflict, "Username is already in use by another account")
		return
	}

	target.Username = req.Username
	target.Email = req.Email
	target.AvatarURL = req.AvatarURL
	if isAdmin && req.Role != nil {
		target.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		target.PasswordHash = string(hash)
	}

	if err := h.Users.UpdateUser(target); err != nil {
		h.Logger.Error("failed to update user", zap.String("userId", targetID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"id":        target.ID,
		"username":  target.Username,
		"email":     target.Email,
		"avatarUrl": target.AvatarURL,
		"role":      target.Role,
	})
}

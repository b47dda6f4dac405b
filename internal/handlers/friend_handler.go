package handlers

import (
	"encoding/json"
	"net/http"

	"brainrank/internal/middleware"
	"brainrank/internal/services"
	"brainrank/internal/utils"

	"go.uber.org/zap"
)

// FriendHandler fronts the friend graph operations.
type FriendHandler struct {
	Friends *services.FriendService
	Logger  *zap.Logger
}

type friendRequestPayload struct {
	FriendID string `json:"friendId"`
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req friendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !utils.IsValidUUID(req.FriendID) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid friend ID")
		return
	}
	utils.JSON(w, http.StatusOK, h.Friends.SendRequest(userID, req.FriendID))
}

type acceptRequestPayload struct {
	RequestID string `json:"requestId"`
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req acceptRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !utils.IsValidUUID(req.RequestID) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}
	utils.JSON(w, http.StatusOK, h.Friends.AcceptRequest(userID, req.RequestID))
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	friends, err := h.Friends.Friends(userID)
	if err != nil {
		h.Logger.Error("failed to list friends", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch friends")
		return
	}
	utils.JSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	requests, err := h.Friends.PendingRequests(userID)
	if err != nil {
		h.Logger.Error("failed to list friend requests", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch friend requests")
		return
	}
	utils.JSON(w, http.StatusOK, requests)
}

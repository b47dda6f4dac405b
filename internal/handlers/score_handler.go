package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"brainrank/internal/metrics"
	"brainrank/internal/middleware"
	"brainrank/internal/services"
	"brainrank/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ScoreHandler fronts the score update pipeline.
type ScoreHandler struct {
	Scores *services.ScoreService
	Logger *zap.Logger
}

type submitScoreRequest struct {
	GameID     string     `json:"gameId"`
	Score      int64      `json:"score"`
	AchievedAt *time.Time `json:"achievedAt"`
}

func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !utils.IsValidUUID(req.GameID) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid game ID")
		return
	}
	if req.Score <= 0 {
		utils.JSONError(w, http.StatusBadRequest, "Score must be a positive number")
		return
	}

	result := h.Scores.SubmitScore(userID, req.GameID, req.Score, req.AchievedAt)
	switch {
	case result.Success:
		metrics.RecordSubmission("accepted")
	case result.Message == "Failed to submit score":
		metrics.RecordSubmission("failed")
	default:
		metrics.RecordSubmission("rejected")
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ScoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	scoreID := chi.URLParam(r, "id")
	if !utils.IsValidUUID(scoreID) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid score ID")
		return
	}
	result := h.Scores.DeleteScore(userID, scoreID)
	utils.JSON(w, http.StatusOK, result)
}

// List returns the caller's personal bests, newest first.
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	scores, err := h.Scores.UserScores(userID)
	if err != nil {
		h.Logger.Error("failed to list scores", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch scores")
		return
	}
	utils.JSON(w, http.StatusOK, scores)
}

// Stats returns the caller's aggregate row plus unlocked achievements for the
// dashboard.
func (h *ScoreHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	stats, err := h.Scores.UserStats(userID)
	if err != nil {
		h.Logger.Error("failed to load stats", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	achievements, err := h.Scores.UserAchievements(userID)
	if err != nil {
		h.Logger.Error("failed to load achievements", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"stats":        stats,
		"achievements": achievements,
	})
}

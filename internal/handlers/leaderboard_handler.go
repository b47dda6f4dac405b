package handlers

import (
	"net/http"

	"brainrank/internal/models"
	"brainrank/internal/repositories"
	"brainrank/internal/services"
	"brainrank/internal/utils"

	"go.uber.org/zap"
)

// LeaderboardHandler dispatches the read modes of GET /api/leaderboard.
type LeaderboardHandler struct {
	Leaderboards *services.LeaderboardService
	Games        *repositories.GameRepository
	Logger       *zap.Logger
}

// Get resolves one of the leaderboard views. Precedence: champions, then
// userChampions, then a game-specific board, then friends/global.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("champions") == "true" {
		champions, err := h.Leaderboards.Champions()
		if err != nil {
			h.fail(w, "Failed to fetch leaderboard", err)
			return
		}
		utils.JSON(w, http.StatusOK, champions)
		return
	}

	if q.Get("userChampions") == "true" {
		champions, err := h.Leaderboards.UserChampions()
		if err != nil {
			h.fail(w, "Failed to fetch leaderboard", err)
			return
		}
		utils.JSON(w, http.StatusOK, champions)
		return
	}

	if gameID, gameName := q.Get("gameId"), q.Get("gameName"); gameID != "" || gameName != "" {
		game, err := h.resolveGame(gameID, gameName)
		if err == repositories.ErrGameNotFound {
			utils.JSONError(w, http.StatusNotFound, "Game not found")
			return
		}
		if err != nil {
			h.fail(w, "Failed to fetch leaderboard", err)
			return
		}
		friendsOf := ""
		if q.Get("type") == "friends" {
			friendsOf = q.Get("userId")
			if !utils.IsValidUUID(friendsOf) {
				utils.JSONError(w, http.StatusBadRequest, "Missing or invalid userId")
				return
			}
		}
		entries, err := h.Leaderboards.ForGame(game.ID, friendsOf)
		if err != nil {
			h.fail(w, "Failed to fetch leaderboard", err)
			return
		}
		utils.JSON(w, http.StatusOK, entries)
		return
	}

	if q.Get("type") == "friends" {
		userID := q.Get("userId")
		if !utils.IsValidUUID(userID) {
			utils.JSONError(w, http.StatusBadRequest, "Missing or invalid userId")
			return
		}
		entries, err := h.Leaderboards.Friends(userID)
		if err != nil {
			h.fail(w, "Failed to fetch leaderboard", err)
			return
		}
		utils.JSON(w, http.StatusOK, entries)
		return
	}

	entries, err := h.Leaderboards.Global()
	if err != nil {
		h.fail(w, "Failed to fetch leaderboard", err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

// Compare serves GET /api/friends/compare?userId&friendId.
func (h *LeaderboardHandler) Compare(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	friendID := r.URL.Query().Get("friendId")
	if !utils.IsValidUUID(userID) || !utils.IsValidUUID(friendID) {
		utils.JSONError(w, http.StatusBadRequest, "Missing userId or friendId")
		return
	}

	summary, err := h.Leaderboards.Compare(userID, friendID)
	if err != nil {
		h.fail(w, "Failed to compare friends", err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *LeaderboardHandler) resolveGame(gameID, gameName string) (*models.Game, error) {
	if gameID != "" {
		return h.Games.GetGameByID(gameID)
	}
	return h.Games.GetGameByName(gameName)
}

func (h *LeaderboardHandler) fail(w http.ResponseWriter, message string, err error) {
	h.Logger.Error(message, zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, message)
}

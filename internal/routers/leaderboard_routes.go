package routers

import (
	"brainrank/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func LeaderboardRoutes(r *chi.Mux, leaderboardHandler *handlers.LeaderboardHandler) {
	r.Get("/api/leaderboard", leaderboardHandler.Get)
}

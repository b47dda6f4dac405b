package routers

import (
	"brainrank/internal/handlers"
	"brainrank/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// FriendRoutes registers the friend graph endpoints. Compare stays public
// since the comparison page links users by ID; everything else requires a
// session.
func FriendRoutes(r *chi.Mux, friendHandler *handlers.FriendHandler, leaderboardHandler *handlers.LeaderboardHandler, auth *middleware.Authenticator) {
	r.Get("/api/friends/compare", leaderboardHandler.Compare)
	r.With(auth.Require).Get("/api/friends", friendHandler.List)
	r.With(auth.Require).Get("/api/friends/requests", friendHandler.PendingRequests)
	r.With(auth.Require).Post("/api/friends/request", friendHandler.SendRequest)
	r.With(auth.Require).Post("/api/friends/accept", friendHandler.AcceptRequest)
}

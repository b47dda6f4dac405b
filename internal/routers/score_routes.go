package routers

import (
	"brainrank/internal/handlers"
	"brainrank/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func ScoreRoutes(r *chi.Mux, scoreHandler *handlers.ScoreHandler, auth *middleware.Authenticator) {
	r.Route("/api/scores", func(r chi.Router) {
		r.Use(auth.Require)
		r.Get("/", scoreHandler.List)
		r.Post("/", scoreHandler.Submit)
		r.Get("/stats", scoreHandler.Stats)
		r.Delete("/{id}", scoreHandler.Delete)
	})
}

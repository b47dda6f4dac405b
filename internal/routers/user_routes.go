package routers

import (
	"brainrank/internal/handlers"
	"brainrank/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(r *chi.Mux, userHandler *handlers.UserHandler, auth *middleware.Authenticator) {
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.With(auth.Require).Put("/{id}", userHandler.Update)
	})
}

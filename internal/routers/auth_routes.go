package routers

import (
	"net/http"

	"brainrank/internal/handlers"
	"brainrank/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, auth *middleware.Authenticator) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Get("/current", func(w http.ResponseWriter, req *http.Request) {
			authHandler.Current(w, req, auth)
		})
	})
}

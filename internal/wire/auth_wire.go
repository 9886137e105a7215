package wire

import (
	"cinema-pegasus/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.rateLimit)

			r.Post("/register", authHandler.Register)
			r.Post("/registrazione", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.With(g.optional).Get("/status", authHandler.Status)

		// ==================== PROTECTED ROUTES ====================
		r.With(g.auth).Post("/logout", authHandler.Logout)
	})
}

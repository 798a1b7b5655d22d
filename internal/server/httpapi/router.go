package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the API. Everything under /api/videos and /api/profile
// requires a bearer token; the auth routes are open.
func NewRouter(users *UserHandler, videos *VideoHandler, secretKey []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", users.Register)
		r.Post("/auth/login", users.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(secretKey))

			r.Get("/auth/me", users.Me)
			r.Get("/profile", users.GetProfile)
			r.Put("/profile", users.UpdateProfile)

			r.Route("/videos", func(r chi.Router) {
				r.Post("/", videos.Upload)
				r.Get("/", videos.List)
				r.Get("/{id}", videos.Get)
				r.Patch("/{id}", videos.Rename)
				r.Delete("/{id}", videos.Delete)
			})
		})
	})

	return r
}

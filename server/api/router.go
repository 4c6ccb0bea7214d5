package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/touist-lang/touist/server/middle"
)

// Router builds the full HTTP router for touistd: API endpoints under
// PathPrefix, wrapped in the standard chi request-ID/recoverer stack plus the
// auth middleware in server/middle.
func (api API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middle.DontPanic())

	r.Route(PathPrefix, func(r chi.Router) {
		r.With(middle.OptionalAuth(api.Backend.DB.Accounts(), api.Secret, api.UnauthDelay)).
			Get("/info", api.HTTPGetInfo())

		r.Post("/login", api.HTTPCreateLogin())
		r.With(middle.RequireAuth(api.Backend.DB.Accounts(), api.Secret, api.UnauthDelay)).
			Delete("/login/{id}", api.HTTPDeleteLogin())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(api.Backend.DB.Accounts(), api.Secret, api.UnauthDelay))

			r.Post("/tokens", api.HTTPCreateToken())

			r.Get("/accounts", api.HTTPGetAllAccounts())
			r.Post("/accounts", api.HTTPCreateAccount())
			r.Get("/accounts/{id}", api.HTTPGetAccount())
			r.Delete("/accounts/{id}", api.HTTPDeleteAccount())

			r.Post("/jobs", api.HTTPCreateJob())
			r.Get("/jobs", api.HTTPGetAllJobs())
			r.Get("/jobs/{id}", api.HTTPGetJob())
			r.Delete("/jobs/{id}", api.HTTPDeleteJob())
		})
	})

	return r
}

// DefaultUnauthDelay is the pause applied before responding to an
// unauthenticated or forbidden request, used when a caller of New does not
// override API.UnauthDelay.
const DefaultUnauthDelay = 1 * time.Second

// Package server wires together the touistd HTTP service: configuration,
// persistence, and the API routes that submit and retrieve compile jobs.
package server

import (
	"fmt"
	"net/http"

	"github.com/touist-lang/touist/internal/cache"
	"github.com/touist-lang/touist/server/api"
	"github.com/touist-lang/touist/server/svc"
)

// Touistd is a fully-wired touistd instance: a Service over persistence, and
// the HTTP handler that exposes it.
type Touistd struct {
	Backend svc.Service
	Handler http.Handler
}

// New connects to the DB configured in cfg, wires a Service around it, and
// builds the HTTP router that exposes it.
func New(cfg Config) (Touistd, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Touistd{}, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Touistd{}, err
	}

	backend := svc.Service{
		DB:       db,
		Compiled: &cache.Store{},
	}

	a := api.API{
		Backend:     backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	return Touistd{Backend: backend, Handler: a.Router()}, nil
}

// ListenAndServe starts the HTTP server on addr:port. If addr is empty, it
// listens on all interfaces.
func (td Touistd) ListenAndServe(addr string, port int) error {
	return http.ListenAndServe(fmt.Sprintf("%s:%d", addr, port), td.Handler)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the
// slugpress API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"slugpress/internal/handlers"
	"slugpress/internal/middleware"
)

// New creates the configured Chi router. apiKeyHash guards everything
// under /api; the health check stays open for probes.
func New(api *handlers.API, apiKeyHash string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(apiKeyHash))

		r.Post("/preview", api.Preview)
		r.Post("/notify", api.Notify)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.TemplatesList)
			r.Get("/{type}", api.TemplateGet)
			r.Put("/{type}", api.TemplateUpsert)
			r.Delete("/{type}", api.TemplateDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

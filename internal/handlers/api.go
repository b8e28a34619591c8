// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the slugpress JSON API: slug previews,
// slug template management, and the change notification endpoint the
// host CMS calls when it cannot publish to Valkey directly.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"slugpress/internal/events"
	"slugpress/internal/resolve"
	"slugpress/internal/slug"
	"slugpress/internal/store"
)

// EventPublisher forwards change events to the watcher's channel.
// *events.Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// API holds the dependencies shared by all endpoint handlers.
type API struct {
	content   *store.ContentStore
	templates *store.SlugTemplateStore
	resolver  *resolve.Resolver
	formatter *slug.Formatter
	publisher EventPublisher
}

// NewAPI creates the handler set.
func NewAPI(content *store.ContentStore, templates *store.SlugTemplateStore, resolver *resolve.Resolver, formatter *slug.Formatter, publisher EventPublisher) *API {
	return &API{
		content:   content,
		templates: templates,
		resolver:  resolver,
		formatter: formatter,
		publisher: publisher,
	}
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody parses a JSON request body into dst. Returns false after
// writing a 400 response when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"slugpress/internal/events"
	"slugpress/internal/models"
)

// templateResponse is the JSON shape of one slug template.
type templateResponse struct {
	ItemType string `json:"item_type"`
	Template string `json:"template"`
	Enabled  bool   `json:"enabled"`
	Active   bool   `json:"active"`
}

func toTemplateResponse(t *models.SlugTemplate) templateResponse {
	return templateResponse{
		ItemType: t.ItemType,
		Template: t.Template,
		Enabled:  t.Enabled,
		Active:   t.IsActive(),
	}
}

// TemplatesList returns all configured slug templates.
func (a *API) TemplatesList(w http.ResponseWriter, r *http.Request) {
	list, err := a.templates.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "template list failed")
		return
	}

	resp := make([]templateResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toTemplateResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// TemplateGet returns the template for one item type.
func (a *API) TemplateGet(w http.ResponseWriter, r *http.Request) {
	itemType := chi.URLParam(r, "type")

	t, err := a.templates.FindByType(itemType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "template lookup failed")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "no template for item type "+itemType)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

// templateUpsertRequest sets or replaces a template for an item type.
type templateUpsertRequest struct {
	Template string `json:"template"`
	Enabled  bool   `json:"enabled"`
}

// TemplateUpsert creates or replaces the template for an item type and
// announces the change so existing bindings rebind.
func (a *API) TemplateUpsert(w http.ResponseWriter, r *http.Request) {
	itemType := chi.URLParam(r, "type")

	var req templateUpsertRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateSlugTemplate(req.Template); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.templates.Upsert(&models.SlugTemplate{
		ItemType: itemType,
		Template: req.Template,
		Enabled:  req.Enabled,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "template save failed")
		return
	}

	a.announceTemplateChange(r, itemType)
	writeJSON(w, http.StatusOK, toTemplateResponse(saved))
}

// TemplateDelete removes the template for an item type. Slugs stop
// being maintained for that type until a new template is set.
func (a *API) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	itemType := chi.URLParam(r, "type")

	if err := a.templates.Delete(itemType); err != nil {
		writeError(w, http.StatusInternalServerError, "template delete failed")
		return
	}

	a.announceTemplateChange(r, itemType)
	w.WriteHeader(http.StatusNoContent)
}

// announceTemplateChange publishes a template event. A publish failure
// is logged but does not fail the request; the template is already saved.
func (a *API) announceTemplateChange(r *http.Request, itemType string) {
	if a.publisher == nil {
		return
	}
	e := events.Event{Kind: events.KindTemplate, ItemType: itemType}
	if err := a.publisher.Publish(r.Context(), e); err != nil {
		slog.Warn("template change publish failed", "item_type", itemType, "error", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"slugpress/internal/slug"
)

// previewRequest asks for a slug render without writing anything.
// Template is optional; when empty the stored template for the item's
// type is used.
type previewRequest struct {
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"`
	Template string `json:"template,omitempty"`
}

// previewResponse carries the rendered slug and the inputs that fed it.
type previewResponse struct {
	Slug          string            `json:"slug"`
	Template      string            `json:"template"`
	PostFields    map[string]string `json:"post_fields"`
	MetaKeys      []string          `json:"meta_keys"`
	TaxonomyTerms map[string]string `json:"taxonomy_terms"`
}

// Preview renders an item's slug from a template without persisting it.
// Editors use this to see what a template change would produce.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item_id")
		return
	}

	template := req.Template
	if template == "" {
		if req.ItemType == "" {
			writeError(w, http.StatusBadRequest, "item_type is required when template is omitted")
			return
		}
		stored, err := a.templates.FindByType(req.ItemType)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "template lookup failed")
			return
		}
		if stored == nil {
			writeError(w, http.StatusNotFound, "no template for item type "+req.ItemType)
			return
		}
		template = stored.Template
	}
	if msg := validateSlugTemplate(template); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if item, err := a.content.FindByID(itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "content lookup failed")
		return
	} else if item == nil {
		writeError(w, http.StatusNotFound, "content item not found")
		return
	}

	vars := slug.Parse(template)
	fields := slug.Required(vars)
	bundle := a.resolver.Resolve(r.Context(), itemID, fields)
	generated := a.formatter.Generate(template, vars, bundle.PostFields, bundle.Meta, bundle.TaxonomyTerms)

	resp := previewResponse{
		Slug:          generated,
		Template:      template,
		PostFields:    make(map[string]string, len(bundle.PostFields)),
		MetaKeys:      fields.MetaKeys,
		TaxonomyTerms: bundle.TaxonomyTerms,
	}
	for name := range bundle.PostFields {
		resp.PostFields[name] = a.formatter.FormatField(name, bundle.PostFields[name], "", false)
	}
	if resp.MetaKeys == nil {
		resp.MetaKeys = []string{}
	}

	writeJSON(w, http.StatusOK, resp)
}

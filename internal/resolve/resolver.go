// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolve gathers the data a slug template needs for one
// content item: post fields, meta values, and assigned taxonomy term
// slugs. Each source fails independently; a broken taxonomy lookup
// must not blank out the title next to it.
package resolve

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"slugpress/internal/cache"
	"slugpress/internal/models"
	"slugpress/internal/slug"
)

// ItemReader reads content item data. *store.ContentStore satisfies it.
type ItemReader interface {
	Attribute(id uuid.UUID, name string) (any, error)
	Meta(id uuid.UUID) (map[string]any, error)
	AssignedTermIDs(id uuid.UUID, restBase string) ([]uuid.UUID, error)
}

// TaxonomyRegistry reads taxonomy and term records. *store.TaxonomyStore
// satisfies it.
type TaxonomyRegistry interface {
	RestBase(slug string) (string, error)
	Term(taxonomySlug string, id uuid.UUID) (*models.Term, error)
}

// Bundle is a point-in-time snapshot of everything a template render
// needs. Taxonomies with no assigned terms are absent from
// TaxonomyTerms, matching the template engine's missing-key handling.
type Bundle struct {
	PostFields    map[string]slug.Value
	Meta          slug.Mapping
	TaxonomyTerms map[string]string
}

// Resolver fetches template inputs from the stores. Rest bases are
// memoized in-process because taxonomy registrations change rarely;
// term records optionally go through the Valkey cache.
type Resolver struct {
	items    ItemReader
	registry TaxonomyRegistry
	terms    *cache.TermCache

	mu        sync.Mutex
	restBases map[string]string
}

// New creates a resolver. terms may be nil to disable term caching.
func New(items ItemReader, registry TaxonomyRegistry, terms *cache.TermCache) *Resolver {
	return &Resolver{
		items:     items,
		registry:  registry,
		terms:     terms,
		restBases: make(map[string]string),
	}
}

// Resolve builds the input bundle for one item. Lookup failures are
// logged at debug level and leave the affected value absent; the
// render then treats it like any other empty field.
func (r *Resolver) Resolve(ctx context.Context, itemID uuid.UUID, fields slug.RequiredFields) Bundle {
	b := Bundle{
		PostFields:    make(map[string]slug.Value, len(fields.PostFields)),
		Meta:          slug.Mapping{},
		TaxonomyTerms: make(map[string]string, len(fields.TaxonomySlugs)),
	}

	for _, name := range fields.PostFields {
		raw, err := r.items.Attribute(itemID, name)
		if err != nil {
			slog.Debug("attribute lookup failed", "item_id", itemID, "field", name, "error", err)
			b.PostFields[name] = slug.Absent{}
			continue
		}
		b.PostFields[name] = slug.ValueOf(raw)
	}

	if len(fields.MetaKeys) > 0 {
		meta, err := r.items.Meta(itemID)
		if err != nil {
			slog.Debug("meta lookup failed", "item_id", itemID, "error", err)
		} else {
			for _, key := range fields.MetaKeys {
				if raw, ok := meta[key]; ok {
					b.Meta[key] = slug.ValueOf(raw)
				}
			}
		}
	}

	for _, taxonomy := range fields.TaxonomySlugs {
		joined, ok := r.termSlugs(ctx, itemID, taxonomy)
		if ok {
			b.TaxonomyTerms[taxonomy] = joined
		}
	}

	return b
}

// termSlugs resolves one taxonomy reference in two stages: taxonomy
// slug to rest base, then rest base to the item's assigned terms.
// Returns false when no terms are assigned or the lookup failed.
func (r *Resolver) termSlugs(ctx context.Context, itemID uuid.UUID, taxonomy string) (string, bool) {
	restBase := r.restBase(taxonomy)

	ids, err := r.items.AssignedTermIDs(itemID, restBase)
	if err != nil {
		slog.Debug("assigned terms lookup failed", "item_id", itemID, "taxonomy", taxonomy, "error", err)
		return "", false
	}
	if len(ids) == 0 {
		return "", false
	}

	slugs := make([]string, 0, len(ids))
	for _, id := range ids {
		term := r.term(ctx, taxonomy, id)
		if term == nil {
			continue
		}
		slugs = append(slugs, term.Slug)
	}
	if len(slugs) == 0 {
		return "", false
	}
	return strings.Join(slugs, "-"), true
}

// restBase maps a taxonomy slug to its REST base, falling back to the
// slug itself when the taxonomy is unregistered or the lookup fails.
func (r *Resolver) restBase(taxonomy string) string {
	r.mu.Lock()
	cached, ok := r.restBases[taxonomy]
	r.mu.Unlock()
	if ok {
		return cached
	}

	restBase, err := r.registry.RestBase(taxonomy)
	if err != nil {
		slog.Debug("rest base lookup failed", "taxonomy", taxonomy, "error", err)
		return taxonomy
	}
	if restBase == "" {
		restBase = taxonomy
	}

	r.mu.Lock()
	r.restBases[taxonomy] = restBase
	r.mu.Unlock()
	return restBase
}

// term fetches one term record, through the Valkey cache when enabled.
func (r *Resolver) term(ctx context.Context, taxonomy string, id uuid.UUID) *models.Term {
	if r.terms != nil {
		if term, ok := r.terms.Get(ctx, taxonomy, id); ok {
			return term
		}
	}

	term, err := r.registry.Term(taxonomy, id)
	if err != nil {
		slog.Debug("term lookup failed", "taxonomy", taxonomy, "id", id, "error", err)
		return nil
	}
	if term == nil {
		return nil
	}
	if r.terms != nil {
		r.terms.Set(ctx, term)
	}
	return term
}

// InvalidateTaxonomy drops the memoized rest base and any cached terms
// for a taxonomy. Called when a taxonomy change event arrives.
func (r *Resolver) InvalidateTaxonomy(ctx context.Context, taxonomy string) {
	r.mu.Lock()
	delete(r.restBases, taxonomy)
	r.mu.Unlock()

	if r.terms != nil {
		r.terms.InvalidateTaxonomy(ctx, taxonomy)
	}
}

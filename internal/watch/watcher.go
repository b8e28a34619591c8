// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package watch keeps content slugs in sync with their templates. Each
// item that has changed recently holds a binding with a debounce timer;
// bursts of change events collapse into one recompute, and the write
// happens only when the slug actually differs.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"slugpress/internal/events"
	"slugpress/internal/models"
	"slugpress/internal/resolve"
	"slugpress/internal/slug"
)

// DefaultDebounce is how long the watcher waits after the last change
// before recomputing a slug.
const DefaultDebounce = 200 * time.Millisecond

// TemplateSource provides the slug template for an item type.
// *store.SlugTemplateStore satisfies it.
type TemplateSource interface {
	FindByType(itemType string) (*models.SlugTemplate, error)
}

// SlugStore reads and writes item slugs. *store.ContentStore satisfies it.
type SlugStore interface {
	Slug(id uuid.UUID) (string, error)
	SetSlug(id uuid.UUID, slug string) error
}

// BundleResolver produces template input snapshots. *resolve.Resolver
// satisfies it.
type BundleResolver interface {
	Resolve(ctx context.Context, itemID uuid.UUID, fields slug.RequiredFields) resolve.Bundle
	InvalidateTaxonomy(ctx context.Context, taxonomy string)
}

// binding tracks one item with a pending or recent slug recompute.
type binding struct {
	itemID   uuid.UUID
	itemType string
	template string
	vars     []slug.Variable
	fields   slug.RequiredFields

	mu          sync.Mutex
	timer       *time.Timer
	snapshot    resolve.Bundle
	lastWritten string
}

// Watcher consumes change events and maintains slugs. Events for items
// whose type has no active template are ignored.
type Watcher struct {
	templates TemplateSource
	slugs     SlugStore
	resolver  BundleResolver
	formatter *slug.Formatter
	debounce  time.Duration

	mu       sync.Mutex
	bindings map[uuid.UUID]*binding
	closed   bool
}

// New creates a watcher. A zero debounce falls back to DefaultDebounce.
func New(templates TemplateSource, slugs SlugStore, resolver BundleResolver, formatter *slug.Formatter, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		templates: templates,
		slugs:     slugs,
		resolver:  resolver,
		formatter: formatter,
		debounce:  debounce,
		bindings:  make(map[uuid.UUID]*binding),
	}
}

// HandleEvent routes one change event. Item-scoped events poke the
// item's binding; taxonomy events invalidate cached registry data and
// poke every binding that references the taxonomy; template events
// drop existing bindings of the type so the next change rebinds.
func (w *Watcher) HandleEvent(ctx context.Context, e events.Event) {
	switch e.Kind {
	case events.KindContent, events.KindMeta, events.KindTerms:
		w.pokeItem(ctx, e.ItemType, e.ItemID)
	case events.KindTaxonomy:
		w.resolver.InvalidateTaxonomy(ctx, e.TaxonomySlug)
		w.pokeTaxonomy(ctx, e.TaxonomySlug)
	case events.KindTemplate:
		w.dropType(e.ItemType)
	default:
		slog.Warn("unhandled event kind", "kind", e.Kind)
	}
}

// pokeItem ensures a binding for the item and schedules a recompute.
func (w *Watcher) pokeItem(ctx context.Context, itemType string, itemID uuid.UUID) {
	b := w.binding(itemType, itemID)
	if b == nil {
		return
	}
	w.poke(ctx, b)
}

// pokeTaxonomy reschedules every binding whose template references the
// taxonomy. Their assigned terms may render differently now.
func (w *Watcher) pokeTaxonomy(ctx context.Context, taxonomy string) {
	w.mu.Lock()
	var affected []*binding
	for _, b := range w.bindings {
		for _, ts := range b.fields.TaxonomySlugs {
			if ts == taxonomy {
				affected = append(affected, b)
				break
			}
		}
	}
	w.mu.Unlock()

	for _, b := range affected {
		w.poke(ctx, b)
	}
}

// binding returns the item's binding, creating one if its type has an
// active template. Returns nil when slug maintenance does not apply.
func (w *Watcher) binding(itemType string, itemID uuid.UUID) *binding {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if b, ok := w.bindings[itemID]; ok {
		return b
	}

	tmpl, err := w.templates.FindByType(itemType)
	if err != nil {
		slog.Warn("template lookup failed", "item_type", itemType, "error", err)
		return nil
	}
	if tmpl == nil || !tmpl.IsActive() {
		slog.Debug("no active template", "item_type", itemType)
		return nil
	}

	vars := slug.Parse(tmpl.Template)
	b := &binding{
		itemID:   itemID,
		itemType: itemType,
		template: tmpl.Template,
		vars:     vars,
		fields:   slug.Required(vars),
	}
	w.bindings[itemID] = b
	return b
}

// poke resolves a fresh snapshot and resets the debounce timer. The
// snapshot is taken at change time; when the timer fires it renders
// whichever snapshot arrived last.
func (w *Watcher) poke(ctx context.Context, b *binding) {
	snapshot := w.resolver.Resolve(ctx, b.itemID, b.fields)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshot = snapshot
	if b.timer != nil {
		b.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() { w.fire(b, t) })
	b.timer = t
}

// fire renders the pending snapshot and writes the slug if it changed.
// t identifies the timer this call came from; a stale timer that lost
// the race against a concurrent poke must not clear the newer one.
func (w *Watcher) fire(b *binding, t *time.Timer) {
	b.mu.Lock()
	if b.timer == t {
		b.timer = nil
	}
	snapshot := b.snapshot
	lastWritten := b.lastWritten
	b.mu.Unlock()

	generated := w.formatter.Generate(b.template, b.vars, snapshot.PostFields, snapshot.Meta, snapshot.TaxonomyTerms)
	if generated == "" {
		slog.Debug("generated slug empty, keeping current", "item_id", b.itemID)
		return
	}
	if generated == lastWritten {
		return
	}

	current, err := w.slugs.Slug(b.itemID)
	if err != nil {
		slog.Warn("slug read failed", "item_id", b.itemID, "error", err)
		return
	}
	if generated == current {
		return
	}

	// Record before writing so a change event triggered by our own
	// write cannot loop back into another write.
	b.mu.Lock()
	b.lastWritten = generated
	b.mu.Unlock()

	if err := w.slugs.SetSlug(b.itemID, generated); err != nil {
		slog.Error("slug write failed", "item_id", b.itemID, "error", err)
		return
	}
	slog.Info("slug updated", "item_id", b.itemID, "item_type", b.itemType, "slug", generated)
}

// dropType removes all bindings of an item type. The next event for an
// affected item rebinds against the current template.
func (w *Watcher) dropType(itemType string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, b := range w.bindings {
		if b.itemType != itemType {
			continue
		}
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		b.mu.Unlock()
		delete(w.bindings, id)
	}
	slog.Debug("bindings dropped for rebind", "item_type", itemType)
}

// Close cancels all pending recomputes and rejects further events.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	for id, b := range w.bindings {
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		b.mu.Unlock()
		delete(w.bindings, id)
	}
}

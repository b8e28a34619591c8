// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"slugpress/internal/events"
	"slugpress/internal/models"
	"slugpress/internal/resolve"
	"slugpress/internal/slug"
)

type fakeTemplates struct {
	mu    sync.Mutex
	tmpl  *models.SlugTemplate
	calls int
}

func (f *fakeTemplates) FindByType(string) (*models.SlugTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tmpl, nil
}

func (f *fakeTemplates) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSlugs struct {
	mu      sync.Mutex
	current string
	writes  []string
}

func (f *fakeSlugs) Slug(uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeSlugs) SetSlug(_ uuid.UUID, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = slug
	f.writes = append(f.writes, slug)
	return nil
}

func (f *fakeSlugs) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeSlugs) lastWrite() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return ""
	}
	return f.writes[len(f.writes)-1]
}

type fakeResolver struct {
	mu          sync.Mutex
	bundle      resolve.Bundle
	calls       int
	invalidated []string
}

func (f *fakeResolver) Resolve(context.Context, uuid.UUID, slug.RequiredFields) resolve.Bundle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.bundle
}

func (f *fakeResolver) InvalidateTaxonomy(_ context.Context, taxonomy string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, taxonomy)
}

func (f *fakeResolver) setBundle(b resolve.Bundle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bundle = b
}

func (f *fakeResolver) resolveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func activeTemplate(template string) *fakeTemplates {
	return &fakeTemplates{tmpl: &models.SlugTemplate{
		ItemType: "post",
		Template: template,
		Enabled:  true,
	}}
}

func titleBundle(title string) resolve.Bundle {
	return resolve.Bundle{
		PostFields: map[string]slug.Value{
			"title": slug.Scalar{Text: title},
			"date":  slug.Scalar{Text: "2024-03-05"},
		},
		Meta:          slug.Mapping{},
		TaxonomyTerms: map[string]string{},
	}
}

func newTestWatcher(templates TemplateSource, slugs SlugStore, resolver BundleResolver) *Watcher {
	return New(templates, slugs, resolver, slug.NewFormatter(slug.FormatPHPDate), 20*time.Millisecond)
}

func waitForWrites(t *testing.T, slugs *fakeSlugs, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for slugs.writeCount() < n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d writes, have %d", n, slugs.writeCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func contentEvent(id uuid.UUID) events.Event {
	return events.Event{Kind: events.KindContent, ItemType: "post", ItemID: id}
}

func TestWritesSlugAfterDebounce(t *testing.T) {
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))

	waitForWrites(t, slugs, 1)
	if got := slugs.lastWrite(); got != "2024-hello-world" {
		t.Errorf("wrote %q, want %q", got, "2024-hello-world")
	}
}

func TestDefaultTemplateSkipsBinding(t *testing.T) {
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate(models.DefaultSlugTemplate), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes, want 0", n)
	}
	if n := resolver.resolveCount(); n != 0 {
		t.Errorf("resolver called %d times, want 0", n)
	}
}

func TestDisabledTemplateSkipsBinding(t *testing.T) {
	templates := &fakeTemplates{tmpl: &models.SlugTemplate{
		ItemType: "post",
		Template: "{title}-{date|Y}",
		Enabled:  false,
	}}
	slugs := &fakeSlugs{}
	w := newTestWatcher(templates, slugs, &fakeResolver{bundle: titleBundle("x")})
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes, want 0", n)
	}
}

func TestNoWriteWhenSlugUnchanged(t *testing.T) {
	slugs := &fakeSlugs{current: "hello-world-2024"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{title}-{date|Y}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes, want 0", n)
	}
}

func TestEmptyGeneratedSlugKeepsCurrent(t *testing.T) {
	// Both references resolve to empty, so the render sanitizes to "".
	slugs := &fakeSlugs{current: "keep-me"}
	resolver := &fakeResolver{bundle: titleBundle("")}
	w := newTestWatcher(activeTemplate("{title}-{excerpt}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes, want 0", n)
	}
}

func TestLastWrittenSuppressesRewrite(t *testing.T) {
	id := uuid.New()
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(id))
	waitForWrites(t, slugs, 1)
	if got := slugs.lastWrite(); got != "2024-hello-world" {
		t.Fatalf("wrote %q, want %q", got, "2024-hello-world")
	}

	// Simulate a stale read: the store still reports the pre-write
	// slug, as it would if our own write echoed back as a change event.
	slugs.mu.Lock()
	slugs.current = "old-slug"
	slugs.mu.Unlock()

	w.HandleEvent(context.Background(), contentEvent(id))

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 1 {
		t.Errorf("got %d writes, want 1", n)
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	id := uuid.New()
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("First")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(id))
	time.Sleep(5 * time.Millisecond)
	resolver.setBundle(titleBundle("Second"))
	w.HandleEvent(context.Background(), contentEvent(id))
	time.Sleep(5 * time.Millisecond)
	resolver.setBundle(titleBundle("Final Title"))
	w.HandleEvent(context.Background(), contentEvent(id))

	waitForWrites(t, slugs, 1)
	time.Sleep(80 * time.Millisecond)

	if n := slugs.writeCount(); n != 1 {
		t.Errorf("got %d writes, want 1", n)
	}
	// Every change resolved a snapshot, but only the last one rendered.
	if n := resolver.resolveCount(); n != 3 {
		t.Errorf("resolver called %d times, want 3", n)
	}
	if got := slugs.lastWrite(); got != "2024-final-title" {
		t.Errorf("wrote %q, want %q", got, "2024-final-title")
	}
}

func TestTaxonomyEventInvalidatesAndRecomputes(t *testing.T) {
	id := uuid.New()
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: resolve.Bundle{
		PostFields:    map[string]slug.Value{},
		Meta:          slug.Mapping{},
		TaxonomyTerms: map[string]string{"category": "golang"},
	}}
	w := newTestWatcher(activeTemplate("{tax:category}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(id))
	waitForWrites(t, slugs, 1)
	if got := slugs.lastWrite(); got != "golang" {
		t.Fatalf("wrote %q, want %q", got, "golang")
	}

	resolver.setBundle(resolve.Bundle{
		PostFields:    map[string]slug.Value{},
		Meta:          slug.Mapping{},
		TaxonomyTerms: map[string]string{"category": "go"},
	})
	w.HandleEvent(context.Background(), events.Event{Kind: events.KindTaxonomy, TaxonomySlug: "category"})

	waitForWrites(t, slugs, 2)
	if got := slugs.lastWrite(); got != "go" {
		t.Errorf("wrote %q, want %q", got, "go")
	}

	resolver.mu.Lock()
	invalidated := append([]string(nil), resolver.invalidated...)
	resolver.mu.Unlock()
	if len(invalidated) != 1 || invalidated[0] != "category" {
		t.Errorf("invalidated = %v, want [category]", invalidated)
	}
}

func TestUnrelatedTaxonomyEventDoesNotPoke(t *testing.T) {
	id := uuid.New()
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(id))
	waitForWrites(t, slugs, 1)
	before := resolver.resolveCount()

	w.HandleEvent(context.Background(), events.Event{Kind: events.KindTaxonomy, TaxonomySlug: "category"})

	time.Sleep(80 * time.Millisecond)
	if n := resolver.resolveCount(); n != before {
		t.Errorf("resolver called %d times, want %d", n, before)
	}
}

func TestTemplateEventRebinds(t *testing.T) {
	id := uuid.New()
	templates := activeTemplate("{title}-{date|Y}")
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(templates, slugs, resolver)
	defer w.Close()

	w.HandleEvent(context.Background(), contentEvent(id))
	waitForWrites(t, slugs, 1)
	if got := slugs.lastWrite(); got != "hello-world-2024" {
		t.Fatalf("wrote %q, want %q", got, "hello-world-2024")
	}
	if got := templates.callCount(); got != 1 {
		t.Fatalf("template lookups = %d, want 1", got)
	}

	// Swap the stored template, announce it, and poke the item again.
	templates.mu.Lock()
	templates.tmpl = &models.SlugTemplate{ItemType: "post", Template: "{date|Y}-{title}", Enabled: true}
	templates.mu.Unlock()
	w.HandleEvent(context.Background(), events.Event{Kind: events.KindTemplate, ItemType: "post"})
	w.HandleEvent(context.Background(), contentEvent(id))

	waitForWrites(t, slugs, 2)
	if got := slugs.lastWrite(); got != "2024-hello-world" {
		t.Errorf("wrote %q, want %q", got, "2024-hello-world")
	}
	if got := templates.callCount(); got != 2 {
		t.Errorf("template lookups = %d, want 2", got)
	}
}

func TestCloseCancelsPendingRecompute(t *testing.T) {
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)

	w.HandleEvent(context.Background(), contentEvent(uuid.New()))
	w.Close()

	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes after Close, want 0", n)
	}

	// Events after Close are ignored.
	w.HandleEvent(context.Background(), contentEvent(uuid.New()))
	time.Sleep(80 * time.Millisecond)
	if n := slugs.writeCount(); n != 0 {
		t.Errorf("got %d writes after Close, want 0", n)
	}
}

func TestStaleFireKeepsNewerTimer(t *testing.T) {
	slugs := &fakeSlugs{current: "old-slug"}
	resolver := &fakeResolver{bundle: titleBundle("Hello World")}
	w := newTestWatcher(activeTemplate("{date|Y}-{title}"), slugs, resolver)
	defer w.Close()

	b := w.binding("post", uuid.New())
	if b == nil {
		t.Fatal("expected a binding for an active template")
	}
	b.mu.Lock()
	b.snapshot = titleBundle("Hello World")
	armed := time.AfterFunc(time.Hour, func() {})
	b.timer = armed
	b.mu.Unlock()
	defer armed.Stop()

	// A fire arriving from an older, already replaced timer still
	// renders, but must not discard the newly armed timer.
	w.fire(b, nil)

	b.mu.Lock()
	kept := b.timer == armed
	b.mu.Unlock()
	if !kept {
		t.Error("stale fire cleared the newer timer")
	}
	if got := slugs.lastWrite(); got != "2024-hello-world" {
		t.Errorf("wrote %q, want %q", got, "2024-hello-world")
	}
}

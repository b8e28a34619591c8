// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"slugpress/internal/database"
	"slugpress/internal/events"
	"slugpress/internal/models"
	"slugpress/internal/resolve"
	"slugpress/internal/slug"
	"slugpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "slugpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "slugpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// capturePublisher records published events instead of sending them.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) published() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

// testAPI wires an API against the test database.
func testAPI(t *testing.T, db *sql.DB) (*API, *capturePublisher) {
	t.Helper()

	content := store.NewContentStore(db)
	taxonomies := store.NewTaxonomyStore(db)
	templates := store.NewSlugTemplateStore(db)
	resolver := resolve.New(content, taxonomies, nil)
	formatter := slug.NewFormatter(slug.FormatPHPDate)
	pub := &capturePublisher{}

	return NewAPI(content, templates, resolver, formatter, pub), pub
}

// seedPublishedPost creates a published post with a known date and
// registers cleanup.
func seedPublishedPost(t *testing.T, db *sql.DB, title, slugVal string) *models.Content {
	t.Helper()

	published := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	c, err := store.NewContentStore(db).Create(&models.Content{
		Type:        models.ContentTypePost,
		Title:       title,
		Slug:        slugVal,
		Body:        "body",
		Status:      models.ContentStatusPublished,
		PublishedAt: &published,
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM content WHERE id = $1", c.ID) })
	return c
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a category
// taxonomy with two terms, a demo post with meta and term assignments,
// and a slug template for posts. No-op when content already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return fmt.Errorf("seed check content: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO taxonomies (slug, name, rest_base)
		VALUES ('category', 'Categories', 'categories')
	`)
	if err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO terms (taxonomy_slug, name, slug)
		VALUES ('category', 'Golang', 'golang'),
		       ('category', 'Tutorials', 'tutorials')
	`)
	if err != nil {
		return fmt.Errorf("seed terms: %w", err)
	}

	var postID string
	err = db.QueryRow(`
		INSERT INTO content (type, title, slug, body, status, published_at)
		VALUES ('post', 'Hello World', 'hello-world', 'Welcome to slugpress.', 'published', now())
		RETURNING id
	`).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed post: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO content_meta (content_id, meta)
		VALUES ($1, '{"subtitle": "First Post", "event": {"city": "Cluj", "date": "2026-03-05"}}')
	`, postID)
	if err != nil {
		return fmt.Errorf("seed meta: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO content_terms (content_id, term_id)
		SELECT $1, id FROM terms WHERE taxonomy_slug = 'category'
	`, postID)
	if err != nil {
		return fmt.Errorf("seed term assignments: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO slug_templates (item_type, template, enabled)
		VALUES ('post', '{date|Y}-{title}-{tax:category}', true)
	`)
	if err != nil {
		return fmt.Errorf("seed slug template: %w", err)
	}

	slog.Info("database seeded with demo content", "post_id", postID)
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the Postgres persistence layer: content
// items with their meta objects, the taxonomy registry with term
// assignments, and per-type slug template configuration.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"slugpress/internal/models"
)

// ContentStore handles all content-related database operations. It is
// the item store the resolver and watcher read from and the only thing
// that writes slugs back.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, type, title, slug, body, excerpt, status, published_at, created_at, updated_at`

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	c := &models.Content{}
	err := s.db.QueryRow(`
		SELECT `+contentColumns+`
		FROM content WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Type, &c.Title, &c.Slug, &c.Body, &c.Excerpt,
		&c.Status, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// Attribute fetches a single named attribute of a content item. The
// attribute names mirror what slug templates can reference as post
// fields. Unknown names and missing items are errors — the resolver
// degrades them to empty substitutions.
func (s *ContentStore) Attribute(id uuid.UUID, name string) (any, error) {
	c, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("content %s not found", id)
	}

	switch name {
	case "id":
		return c.ID.String(), nil
	case "type":
		return string(c.Type), nil
	case "title":
		return c.Title, nil
	case "slug":
		return c.Slug, nil
	case "body", "content":
		return c.Body, nil
	case "excerpt":
		if c.Excerpt == nil {
			return nil, nil
		}
		return *c.Excerpt, nil
	case "status":
		return string(c.Status), nil
	case "date":
		return c.Date().Format(time.RFC3339), nil
	case "modified":
		return c.UpdatedAt.Format(time.RFC3339), nil
	default:
		return nil, fmt.Errorf("unknown content attribute %q", name)
	}
}

// Slug returns the currently persisted slug of a content item.
func (s *ContentStore) Slug(id uuid.UUID) (string, error) {
	var slug string
	err := s.db.QueryRow(`SELECT slug FROM content WHERE id = $1`, id).Scan(&slug)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("content %s not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("get slug: %w", err)
	}
	return slug, nil
}

// SetSlug writes a new slug for a content item.
func (s *ContentStore) SetSlug(id uuid.UUID, slug string) error {
	res, err := s.db.Exec(`
		UPDATE content SET slug = $2, updated_at = now() WHERE id = $1
	`, id, slug)
	if err != nil {
		return fmt.Errorf("set slug: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("content %s not found", id)
	}
	return nil
}

// Meta returns the item's custom metadata as one decoded object. Items
// without a meta row get an empty mapping.
func (s *ContentStore) Meta(id uuid.UUID) (map[string]any, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT meta FROM content_meta WHERE content_id = $1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meta: %w", err)
	}

	meta := map[string]any{}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return meta, nil
}

// SetMeta replaces the item's meta object. Used by the seeder and tests;
// the slug engine itself only reads meta.
func (s *ContentStore) SetMeta(id uuid.UUID, meta map[string]any) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO content_meta (content_id, meta)
		VALUES ($1, $2)
		ON CONFLICT (content_id) DO UPDATE SET meta = $2, updated_at = now()
	`, id, raw)
	if err != nil {
		return fmt.Errorf("set meta: %w", err)
	}
	return nil
}

// AssignedTermIDs lists the term ids assigned to an item for the
// taxonomy identified by its rest base name.
func (s *ContentStore) AssignedTermIDs(id uuid.UUID, restBase string) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`
		SELECT t.id
		FROM content_terms ct
		JOIN terms t ON t.id = ct.term_id
		JOIN taxonomies x ON x.slug = t.taxonomy_slug
		WHERE ct.content_id = $1 AND x.rest_base = $2
		ORDER BY t.created_at, t.id
	`, id, restBase)
	if err != nil {
		return nil, fmt.Errorf("assigned term ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var tid uuid.UUID
		if err := rows.Scan(&tid); err != nil {
			return nil, fmt.Errorf("scan term id: %w", err)
		}
		ids = append(ids, tid)
	}
	return ids, rows.Err()
}

// Create inserts a new content item and returns it with generated fields.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	result := &models.Content{}
	err := s.db.QueryRow(`
		INSERT INTO content (type, title, slug, body, excerpt, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+contentColumns+`
	`, c.Type, c.Title, c.Slug, c.Body, c.Excerpt, c.Status, c.PublishedAt,
	).Scan(
		&result.ID, &result.Type, &result.Title, &result.Slug, &result.Body,
		&result.Excerpt, &result.Status, &result.PublishedAt,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// Delete removes a content item (meta and term assignments cascade).
func (s *ContentStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"slugpress/internal/models"
)

// TaxonomyStore is the taxonomy registry: taxonomies, their terms, and
// term assignments to content items.
type TaxonomyStore struct {
	db *sql.DB
}

// NewTaxonomyStore returns a new TaxonomyStore.
func NewTaxonomyStore(db *sql.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

// FindBySlug retrieves a taxonomy by its slug. Returns nil if unknown.
func (s *TaxonomyStore) FindBySlug(slug string) (*models.Taxonomy, error) {
	t := &models.Taxonomy{}
	err := s.db.QueryRow(`
		SELECT slug, name, rest_base, created_at
		FROM taxonomies WHERE slug = $1
	`, slug).Scan(&t.Slug, &t.Name, &t.RestBase, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find taxonomy: %w", err)
	}
	return t, nil
}

// RestBase resolves a taxonomy slug to its rest base name. Returns ""
// for unknown taxonomies — callers fall back to the slug itself.
func (s *TaxonomyStore) RestBase(slug string) (string, error) {
	t, err := s.FindBySlug(slug)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", nil
	}
	return t.RestBase, nil
}

// Term retrieves one term record by id within a taxonomy. Returns nil
// if the term doesn't exist or belongs to a different taxonomy.
func (s *TaxonomyStore) Term(taxonomySlug string, id uuid.UUID) (*models.Term, error) {
	t := &models.Term{}
	err := s.db.QueryRow(`
		SELECT id, taxonomy_slug, name, slug, created_at
		FROM terms WHERE id = $1 AND taxonomy_slug = $2
	`, id, taxonomySlug).Scan(&t.ID, &t.TaxonomySlug, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find term: %w", err)
	}
	return t, nil
}

// CreateTaxonomy registers a taxonomy. An empty rest base defaults to
// the taxonomy slug.
func (s *TaxonomyStore) CreateTaxonomy(t *models.Taxonomy) (*models.Taxonomy, error) {
	if t.RestBase == "" {
		t.RestBase = t.Slug
	}
	result := &models.Taxonomy{}
	err := s.db.QueryRow(`
		INSERT INTO taxonomies (slug, name, rest_base)
		VALUES ($1, $2, $3)
		RETURNING slug, name, rest_base, created_at
	`, t.Slug, t.Name, t.RestBase).Scan(
		&result.Slug, &result.Name, &result.RestBase, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create taxonomy: %w", err)
	}
	return result, nil
}

// CreateTerm adds a term to a taxonomy.
func (s *TaxonomyStore) CreateTerm(t *models.Term) (*models.Term, error) {
	result := &models.Term{}
	err := s.db.QueryRow(`
		INSERT INTO terms (taxonomy_slug, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id, taxonomy_slug, name, slug, created_at
	`, t.TaxonomySlug, t.Name, t.Slug).Scan(
		&result.ID, &result.TaxonomySlug, &result.Name, &result.Slug, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create term: %w", err)
	}
	return result, nil
}

// AssignTerm attaches a term to a content item. Re-assigning is a no-op.
func (s *TaxonomyStore) AssignTerm(contentID, termID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO content_terms (content_id, term_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, contentID, termID)
	if err != nil {
		return fmt.Errorf("assign term: %w", err)
	}
	return nil
}

// UnassignTerm detaches a term from a content item.
func (s *TaxonomyStore) UnassignTerm(contentID, termID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM content_terms WHERE content_id = $1 AND term_id = $2
	`, contentID, termID)
	if err != nil {
		return fmt.Errorf("unassign term: %w", err)
	}
	return nil
}

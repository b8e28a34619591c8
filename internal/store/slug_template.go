// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"slugpress/internal/models"
)

// SlugTemplateStore manages per-item-type slug template configuration.
type SlugTemplateStore struct {
	db *sql.DB
}

// NewSlugTemplateStore returns a new SlugTemplateStore.
func NewSlugTemplateStore(db *sql.DB) *SlugTemplateStore {
	return &SlugTemplateStore{db: db}
}

// List returns all configured slug templates ordered by item type.
func (s *SlugTemplateStore) List() ([]models.SlugTemplate, error) {
	rows, err := s.db.Query(`
		SELECT item_type, template, enabled, created_at, updated_at
		FROM slug_templates
		ORDER BY item_type
	`)
	if err != nil {
		return nil, fmt.Errorf("list slug templates: %w", err)
	}
	defer rows.Close()

	var items []models.SlugTemplate
	for rows.Next() {
		var t models.SlugTemplate
		if err := rows.Scan(&t.ItemType, &t.Template, &t.Enabled, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan slug template: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByType retrieves the slug template for an item type. Returns nil
// if the type has no configuration.
func (s *SlugTemplateStore) FindByType(itemType string) (*models.SlugTemplate, error) {
	t := &models.SlugTemplate{}
	err := s.db.QueryRow(`
		SELECT item_type, template, enabled, created_at, updated_at
		FROM slug_templates WHERE item_type = $1
	`, itemType).Scan(&t.ItemType, &t.Template, &t.Enabled, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find slug template: %w", err)
	}
	return t, nil
}

// Upsert creates or replaces the slug template for an item type.
func (s *SlugTemplateStore) Upsert(t *models.SlugTemplate) (*models.SlugTemplate, error) {
	result := &models.SlugTemplate{}
	err := s.db.QueryRow(`
		INSERT INTO slug_templates (item_type, template, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_type) DO UPDATE
		SET template = $2, enabled = $3, updated_at = now()
		RETURNING item_type, template, enabled, created_at, updated_at
	`, t.ItemType, t.Template, t.Enabled).Scan(
		&result.ItemType, &result.Template, &result.Enabled,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert slug template: %w", err)
	}
	return result, nil
}

// Delete removes the slug template configuration for an item type.
func (s *SlugTemplateStore) Delete(itemType string) error {
	if _, err := s.db.Exec(`DELETE FROM slug_templates WHERE item_type = $1`, itemType); err != nil {
		return fmt.Errorf("delete slug template: %w", err)
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// DefaultSlugTemplate is the sentinel meaning "no customization". The
// watcher never rewrites slugs for item types configured with it.
const DefaultSlugTemplate = "{title}"

// SlugTemplate is the per-item-type slug configuration. When enabled
// and different from the default sentinel, the watcher keeps slugs of
// that item type in sync with the template.
type SlugTemplate struct {
	ItemType  string    `json:"item_type"`
	Template  string    `json:"template"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether this configuration should drive slug
// generation at all.
func (t *SlugTemplate) IsActive() bool {
	return t.Enabled && t.Template != "" && t.Template != DefaultSlugTemplate
}

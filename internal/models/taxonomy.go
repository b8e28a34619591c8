// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Taxonomy is a registered classification (category, tag, ...). The
// RestBase is the attribute name under which the host exposes an item's
// assigned term ids for this taxonomy; it usually differs from the slug
// (taxonomy "category" → rest base "categories").
type Taxonomy struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	RestBase  string    `json:"rest_base"`
	CreatedAt time.Time `json:"created_at"`
}

// Term is one classification label inside a taxonomy. Its slug is what
// template {tax:...} references substitute.
type Term struct {
	ID           uuid.UUID `json:"id"`
	TaxonomySlug string    `json:"taxonomy"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CreatedAt    time.Time `json:"created_at"`
}

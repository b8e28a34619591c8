// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events carries change notifications from the host CMS to the
// slug watcher over a Valkey pub/sub channel. Each event names what
// changed; the watcher decides whether a recompute is needed.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Channel is the Valkey pub/sub channel events travel on.
const Channel = "slugpress:events"

// Event kinds. Content, meta, and term-assignment changes are scoped to
// one item; taxonomy changes affect the registry (and every item bound
// to that taxonomy); template changes rebind an item type.
const (
	KindContent  = "content"
	KindMeta     = "meta"
	KindTerms    = "terms"
	KindTaxonomy = "taxonomy"
	KindTemplate = "template"
)

// Event is one change notification.
type Event struct {
	Kind         string    `json:"kind"`
	ItemType     string    `json:"item_type,omitempty"`
	ItemID       uuid.UUID `json:"item_id,omitempty"`
	TaxonomySlug string    `json:"taxonomy,omitempty"`
}

// Validate checks that the event carries the fields its kind requires.
func (e Event) Validate() error {
	switch e.Kind {
	case KindContent, KindMeta, KindTerms:
		if e.ItemType == "" || e.ItemID == uuid.Nil {
			return fmt.Errorf("%s event requires item_type and item_id", e.Kind)
		}
	case KindTaxonomy:
		if e.TaxonomySlug == "" {
			return fmt.Errorf("taxonomy event requires taxonomy")
		}
	case KindTemplate:
		if e.ItemType == "" {
			return fmt.Errorf("template event requires item_type")
		}
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

// decode parses an event payload off the wire.
func decode(payload string) (Event, error) {
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"slugpress/internal/models"
)

const (
	// termKeyPrefix is the Valkey key prefix for cached term records.
	termKeyPrefix = "term:"

	// DefaultTermTTL is how long a term record stays cached.
	DefaultTermTTL = 5 * time.Minute
)

// TermCache manages taxonomy term record caching in Valkey. Slug
// recomputation looks up every assigned term on every cycle; the
// records change rarely, so caching them skips most registry queries.
// Taxonomy change events invalidate the affected taxonomy wholesale.
type TermCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTermCache creates a new term cache backed by the given Valkey client.
func NewTermCache(client *redis.Client, ttl time.Duration) *TermCache {
	if ttl == 0 {
		ttl = DefaultTermTTL
	}
	return &TermCache{client: client, ttl: ttl}
}

// termKey builds the cache key for one term within a taxonomy.
func termKey(taxonomy string, id uuid.UUID) string {
	return termKeyPrefix + taxonomy + ":" + id.String()
}

// Get retrieves a cached term record. Returns false on miss.
func (tc *TermCache) Get(ctx context.Context, taxonomy string, id uuid.UUID) (*models.Term, bool) {
	val, err := tc.client.Get(ctx, termKey(taxonomy, id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("term cache get error", "taxonomy", taxonomy, "id", id, "error", err)
		return nil, false
	}

	var term models.Term
	if err := json.Unmarshal(val, &term); err != nil {
		slog.Warn("term cache decode error", "taxonomy", taxonomy, "id", id, "error", err)
		return nil, false
	}
	slog.Debug("term cache hit", "taxonomy", taxonomy, "id", id)
	return &term, true
}

// Set stores a term record with the configured TTL.
func (tc *TermCache) Set(ctx context.Context, term *models.Term) {
	val, err := json.Marshal(term)
	if err != nil {
		slog.Warn("term cache encode error", "id", term.ID, "error", err)
		return
	}
	if err := tc.client.Set(ctx, termKey(term.TaxonomySlug, term.ID), val, tc.ttl).Err(); err != nil {
		slog.Warn("term cache set error", "id", term.ID, "error", err)
	}
}

// InvalidateTaxonomy removes all cached terms of one taxonomy by
// scanning for its key prefix. Called when taxonomy or term data changes.
func (tc *TermCache) InvalidateTaxonomy(ctx context.Context, taxonomy string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := tc.client.Scan(ctx, cursor, termKeyPrefix+taxonomy+":*", 100).Result()
		if err != nil {
			slog.Warn("term cache scan error", "taxonomy", taxonomy, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("term cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("term cache invalidated", "taxonomy", taxonomy, "deleted", deleted)
	}
}

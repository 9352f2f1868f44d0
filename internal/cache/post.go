// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed cache for rendered post payloads.
// When a post is fetched by id, the serialized JSON response is stored
// so subsequent reads skip the database queries and association loading
// entirely. Every post mutation invalidates the entry.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post payloads.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long a rendered post payload stays cached.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages serialized post payloads in Valkey.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a new post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves the cached payload for a post id. Returns false on miss.
func (pc *PostCache) Get(ctx context.Context, id uuid.UUID) ([]byte, bool) {
	val, err := pc.client.Get(ctx, postKeyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "id", id)
	return val, true
}

// Set stores a serialized post payload with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, id uuid.UUID, payload []byte) {
	if err := pc.client.Set(ctx, postKeyPrefix+id.String(), payload, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "id", id, "error", err)
	}
}

// Invalidate removes a single post payload from the cache.
func (pc *PostCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := pc.client.Del(ctx, postKeyPrefix+id.String()).Err(); err != nil {
		slog.Warn("post cache invalidate error", "id", id, "error", err)
	}
	slog.Debug("post cache invalidated", "id", id)
}

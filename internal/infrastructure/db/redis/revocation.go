package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// RevocationCache layers a Redis fast path over the durable blacklist store.
// Revoked tokens are cached with a TTL covering the refresh token lifetime;
// after that the token is expired anyway and the durable record alone
// suffices. Cache failures degrade to the durable store, never to a
// false negative.
type RevocationCache struct {
	client  *redis.Client
	durable ports.BlacklistRepository
	ttl     time.Duration
}

func NewRevocationCache(client *redis.Client, durable ports.BlacklistRepository, ttl time.Duration) *RevocationCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RevocationCache{client: client, durable: durable, ttl: ttl}
}

func (c *RevocationCache) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	if err := c.durable.Add(ctx, entry); err != nil {
		return err
	}
	// Best effort: the durable record is already written.
	_ = c.client.Set(ctx, c.key(entry.Token), "1", c.ttl).Err()
	return nil
}

func (c *RevocationCache) Contains(ctx context.Context, tokenValue string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(tokenValue)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	// Miss or cache failure: consult the durable store.
	revoked, err := c.durable.Contains(ctx, tokenValue)
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		_ = c.client.Set(ctx, c.key(tokenValue), "1", c.ttl).Err()
	}
	return revoked, nil
}

func (c *RevocationCache) key(tokenValue string) string {
	return "revoked:" + tokenValue
}

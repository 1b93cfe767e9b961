package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignedURLCache memoizes presigned artifact URLs so repeated downloads of
// the same artifact do not re-sign on every request.
// Key format: signedurl:<artifact_key>
//
// Entries expire at half the signing window, so a cached URL always has at
// least half its validity left when handed out.
type SignedURLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSignedURLCache creates a cache whose entries live for half of urlTTL.
func NewSignedURLCache(client *redis.Client, urlTTL time.Duration) *SignedURLCache {
	return &SignedURLCache{client: client, ttl: urlTTL / 2}
}

// Get returns the cached URL for the artifact key, or "" on a miss.
func (c *SignedURLCache) Get(ctx context.Context, artifactKey string) (string, error) {
	url, err := c.client.Get(ctx, c.key(artifactKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("signed url cache get: %w", err)
	}
	return url, nil
}

// Set stores the URL for the artifact key.
func (c *SignedURLCache) Set(ctx context.Context, artifactKey, url string) error {
	return c.client.Set(ctx, c.key(artifactKey), url, c.ttl).Err()
}

// Invalidate drops the cached URL, used when the artifact is deleted.
func (c *SignedURLCache) Invalidate(ctx context.Context, artifactKey string) error {
	return c.client.Del(ctx, c.key(artifactKey)).Err()
}

func (c *SignedURLCache) key(artifactKey string) string {
	return "signedurl:" + artifactKey
}

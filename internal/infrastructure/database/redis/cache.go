package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// reportCache stores rendered NSIL documents under the client's key
// prefix. Documents are cached verbatim; the key already encodes the
// mission profile digest, so entries never need invalidation beyond TTL.
type reportCache struct {
	client *Client
	logger logging.Logger
	prefix string
}

// NewReportCache builds the Redis-backed report cache.
func NewReportCache(client *Client, log logging.Logger) intelligence.ReportCache {
	return &reportCache{
		client: client,
		logger: log.Named("report-cache"),
		prefix: client.KeyPrefix(),
	}
}

func (c *reportCache) fullKey(key string) string {
	return c.prefix + key
}

// Get returns the cached document and whether it was present. A miss
// is not an error.
func (c *reportCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.fullKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read report cache")
	}
	return val, true, nil
}

// Set stores the document with the given TTL.
func (c *reportCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.fullKey(key), value, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write report cache")
	}
	return nil
}

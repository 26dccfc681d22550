package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/angelmondragon/orderlens/pkg/metrics"
)

// Cache memoizes serialized results. *redis.Client satisfies it.
type Cache interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ResultKey(operation, digest string) string
}

// digest hashes the JSON form of req, so equal requests share a key.
func digest(req any) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// cached returns the memoized result of operation for req, computing and storing it on a miss.
// Cache failures are logged and never fail the call.
func cached[T any](ctx context.Context, s *service, operation string, req any, compute func() (*T, error)) (*T, error) {
	if s.cache == nil {
		return compute()
	}
	sum, err := digest(req)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache key failed")
		return compute()
	}
	key := s.cache.ResultKey(operation, sum)

	raw, found, err := s.cache.Lookup(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncCache(operation, metrics.CacheError)
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache lookup failed")
	case found:
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			s.metrics.IncCache(operation, metrics.CacheHit)
			return &out, nil
		}
		s.metrics.IncCache(operation, metrics.CacheError)
		s.logg.Warn(ctx, "analytics cache entry unreadable")
	default:
		s.metrics.IncCache(operation, metrics.CacheMiss)
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache encode failed")
		return result, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics cache store failed")
	}
	return result, nil
}

package transport

import (
	"context"

	"github.com/rs/zerolog"

	"cleengo/internal/cache"
	"cleengo/internal/jsonrpc"
)

// CachedConfig configures the response cache decorator
type CachedConfig struct {
	Cache  cache.Cache
	Rules  *cache.Rules
	Logger zerolog.Logger
}

// Cached serves whole batch responses from a cache when every call in the
// batch is cacheable
type Cached struct {
	next   Caller
	cache  cache.Cache
	rules  *cache.Rules
	logger zerolog.Logger
}

// NewCached wraps next with a response cache
func NewCached(next Caller, cfg CachedConfig) *Cached {
	store := cfg.Cache
	if store == nil {
		store = cache.NewNoopCache()
	}
	return &Cached{
		next:   next,
		cache:  store,
		rules:  cfg.Rules,
		logger: cfg.Logger.With().Str("component", "cache").Logger(),
	}
}

// Call implements Caller
func (c *Cached) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	if !c.cacheable(body) {
		return c.next.Call(ctx, endpoint, body)
	}

	key := cache.GenerateCacheKey(endpoint, body)
	if data, ok := c.cache.Get(key); ok {
		c.logger.Debug().Str("key", key).Msg("cache hit")
		return data, nil
	}

	resp, err := c.next.Call(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	if storable(resp) {
		c.cache.Set(key, resp)
		c.logger.Debug().Str("key", key).Msg("cache store")
	}
	return resp, nil
}

func (c *Cached) cacheable(body []byte) bool {
	if c.rules == nil {
		return false
	}
	requests, _, err := jsonrpc.ParseBatchRequest(body)
	if err != nil || len(requests) == 0 {
		return false
	}
	for _, req := range requests {
		if req == nil || !c.rules.IsCacheable(req.Method) {
			return false
		}
	}
	return true
}

// storable reports whether a response is a well-formed batch without any
// error element
func storable(resp []byte) bool {
	responses, isBatch, err := jsonrpc.ParseBatchResponse(resp)
	if err != nil || !isBatch || len(responses) == 0 {
		return false
	}
	for _, r := range responses {
		if r == nil || r.HasError() || !r.ResultIsStructured() {
			return false
		}
	}
	return true
}

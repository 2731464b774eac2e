package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gobwas/glob"
	"golang.org/x/crypto/sha3"
)

// DefaultCacheableMethods lists the read-only Cleeng calls whose results
// depend only on their params
var DefaultCacheableMethods = []string{
	"get*Offer",
	"list*Offers",
	"getPublisherEmail",
}

// Rules decides which methods may be served from the cache
type Rules struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewRules compiles include and exclude method patterns. An empty include
// list means DefaultCacheableMethods.
func NewRules(include, exclude []string) (*Rules, error) {
	if len(include) == 0 {
		include = DefaultCacheableMethods
	}
	r := &Rules{}
	var err error
	if r.include, err = compile(include); err != nil {
		return nil, err
	}
	if r.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return r, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid method pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// IsCacheable checks if a method result may be cached
func (r *Rules) IsCacheable(method string) bool {
	for _, g := range r.exclude {
		if g.Match(method) {
			return false
		}
	}
	for _, g := range r.include {
		if g.Match(method) {
			return true
		}
	}
	return false
}

// GenerateCacheKey creates a cache key for a request body sent to endpoint
func GenerateCacheKey(endpoint string, body []byte) string {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(endpoint))
	hash.Write([]byte{0})
	hash.Write(normalizeBody(body))
	return hex.EncodeToString(hash.Sum(nil)[:16])
}

// normalizeBody re-encodes JSON so that object key order does not affect
// the key
func normalizeBody(body []byte) []byte {
	if len(body) == 0 {
		return []byte("[]")
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return body
	}

	result, err := json.Marshal(data)
	if err != nil {
		return body
	}
	return result
}

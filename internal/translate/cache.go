package translate

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache memoizes decode results so repeated lookups of the same phrase skip
// the provider round trip. Only the two decode modes are cached; generation
// modes are expected to produce a different invention every time.
type Cache struct {
	inner *ristretto.Cache
	ttl   time.Duration
}

func NewCache() (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     32 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, ttl: time.Hour}, nil
}

func (c *Cache) Get(mode Mode, text string) (*Result, bool) {
	if c == nil || !mode.Decoding() {
		return nil, false
	}
	v, ok := c.inner.Get(cacheKey(mode, text))
	if !ok {
		return nil, false
	}
	res, ok := v.(*Result)
	return res, ok
}

func (c *Cache) Put(mode Mode, text string, res *Result) {
	if c == nil || !mode.Decoding() {
		return
	}
	cost := int64(len(res.Original) + len(res.Translation))
	c.inner.SetWithTTL(cacheKey(mode, text), res, cost, c.ttl)
}

func cacheKey(mode Mode, text string) string {
	return string(mode) + "\x00" + SanitizeInput(text)
}

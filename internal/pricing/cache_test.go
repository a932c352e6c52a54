package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuoteID(t *testing.T) {
	a := QuoteID("series|0.6|5")
	assert.Equal(t, a, QuoteID("series|0.6|5"))
	assert.NotEqual(t, a, QuoteID("series|0.6|7"))
	assert.Len(t, a, 36)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "goals|a|0.1|3|-", fingerprint("goals", "a", 0.1, 3, optional(nil)))
	assert.Equal(t, "0.27", optional(ptr(0.27)))
}

func TestQuoteCacheGetSet(t *testing.T) {
	c := NewQuoteCache(time.Minute, 10)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("id", "quote")
	got, ok := c.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "quote", got)

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestQuoteCacheMaxSize(t *testing.T) {
	c := NewQuoteCache(time.Minute, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.Equal(t, 2, c.ItemCount())
	_, ok := c.Get("c")
	assert.False(t, ok)
}

func TestQuoteCacheUnbounded(t *testing.T) {
	c := NewQuoteCache(time.Minute, 0)
	for _, id := range []string{"a", "b", "c"} {
		c.Set(id, id)
	}
	assert.Equal(t, 3, c.ItemCount())
}

func TestQuoteCacheClear(t *testing.T) {
	c := NewQuoteCache(time.Minute, 10)
	c.Set("a", 1)
	c.Get("a")
	c.Clear()

	assert.Equal(t, 0, c.ItemCount())
	hits, misses, ratio := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, ratio)
}

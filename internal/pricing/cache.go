package pricing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/damirmikic/betting-models/internal/metrics"
)

// quoteNamespace scopes quote IDs derived from request fingerprints
var quoteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/damirmikic/betting-models/quotes"))

// QuoteID returns the deterministic ID of a request fingerprint. Equal
// requests priced by the same engine version share an ID.
func QuoteID(fingerprint string) string {
	return uuid.NewSHA1(quoteNamespace, []byte(EngineVersion+"|"+fingerprint)).String()
}

// QuoteCache provides in-memory caching for priced quotes
type QuoteCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewQuoteCache creates a new quote cache. A non-positive maxSize disables
// the size limit.
func NewQuoteCache(ttl time.Duration, maxSize int) *QuoteCache {
	return &QuoteCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached quote
func (qc *QuoteCache) Get(id string) (interface{}, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	quote, found := qc.cache.Get(id)
	if found {
		qc.hitCount++
	} else {
		qc.missCount++
	}
	qc.updateMetrics()
	return quote, found
}

// Set stores a quote in cache
func (qc *QuoteCache) Set(id string, quote interface{}) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	if qc.maxSize > 0 && qc.cache.ItemCount() >= qc.maxSize {
		qc.cache.DeleteExpired()
		if qc.cache.ItemCount() >= qc.maxSize {
			return
		}
	}

	qc.cache.Set(id, quote, qc.ttl)
	qc.updateMetrics()
}

// Clear flushes the entire cache
func (qc *QuoteCache) Clear() {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	qc.cache.Flush()
	qc.hitCount = 0
	qc.missCount = 0
	qc.updateMetrics()
}

// Stats returns cache statistics
func (qc *QuoteCache) Stats() (hits, misses uint64, ratio float64) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.stats()
}

func (qc *QuoteCache) stats() (hits, misses uint64, ratio float64) {
	hits = qc.hitCount
	misses = qc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (qc *QuoteCache) ItemCount() int {
	return qc.cache.ItemCount()
}

// updateMetrics must be called with mu held
func (qc *QuoteCache) updateMetrics() {
	_, _, ratio := qc.stats()
	metrics.UpdateQuoteCache(ratio, qc.cache.ItemCount())
}

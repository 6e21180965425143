package pricing

import (
	"sync"
	"time"
)

// entry is one cached resolution. unavailable marks a key whose lookback
// window was exhausted without finding a price.
type entry struct {
	price       float64
	unavailable bool
}

// Cache stores resolved prices keyed by (ticker, resolved trading date).
// Keys always use the trading-day-adjusted date, never the raw requested
// date, so a Saturday request and the preceding Friday share one entry.
// Entries are immutable once set: past closing prices do not change, and
// write-once semantics keep concurrent resolvers from fighting over a key.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache creates an empty price cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func cacheKey(ticker string, date time.Time) string {
	return ticker + "|" + DayKey(date)
}

// Get returns the cached price for (ticker, date). unavailable reports a
// recorded exhausted-lookback result; ok reports whether any entry exists.
func (c *Cache) Get(ticker string, date time.Time) (price float64, unavailable bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey(ticker, date)]
	return e.price, e.unavailable, ok
}

// SetPrice records a resolved price. Existing entries win: the first
// writer for a key determines its value for the cache's lifetime.
func (c *Cache) SetPrice(ticker string, date time.Time, price float64) {
	c.set(cacheKey(ticker, date), entry{price: price})
}

// SetUnavailable records an exhausted lookback for (ticker, date).
func (c *Cache) SetUnavailable(ticker string, date time.Time) {
	c.set(cacheKey(ticker, date), entry{unavailable: true})
}

func (c *Cache) set(key string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = e
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

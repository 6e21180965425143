package pricing

import (
	"sync"
	"testing"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache()
	d := day(2024, 12, 6)

	if _, _, ok := c.Get("AAPL", d); ok {
		t.Error("expected miss on empty cache")
	}

	c.SetPrice("AAPL", d, 180.0)
	price, unavailable, ok := c.Get("AAPL", d)
	if !ok || unavailable {
		t.Fatalf("expected hit, got ok=%v unavailable=%v", ok, unavailable)
	}
	if price != 180.0 {
		t.Errorf("price = %.2f, want 180.00", price)
	}
}

func TestCache_EntriesImmutable(t *testing.T) {
	c := NewCache()
	d := day(2024, 12, 6)

	c.SetPrice("AAPL", d, 180.0)
	c.SetPrice("AAPL", d, 999.0)
	c.SetUnavailable("AAPL", d)

	price, unavailable, ok := c.Get("AAPL", d)
	if !ok || unavailable {
		t.Fatalf("expected original entry intact, got ok=%v unavailable=%v", ok, unavailable)
	}
	if price != 180.0 {
		t.Errorf("price = %.2f, want first-written 180.00", price)
	}
}

func TestCache_UnavailableMarker(t *testing.T) {
	c := NewCache()
	d := day(2024, 12, 6)

	c.SetUnavailable("XXXX", d)
	_, unavailable, ok := c.Get("XXXX", d)
	if !ok || !unavailable {
		t.Errorf("expected unavailable hit, got ok=%v unavailable=%v", ok, unavailable)
	}
}

func TestCache_KeyUsesDayOnly(t *testing.T) {
	c := NewCache()
	morning := day(2024, 12, 6).Add(9 * 3600 * 1e9)

	c.SetPrice("AAPL", day(2024, 12, 6), 180.0)
	if _, _, ok := c.Get("AAPL", morning); !ok {
		t.Error("same calendar day with a time component should hit")
	}
}

func TestCache_ConcurrentDistinctKeys(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := day(2024, 1, 1).AddDate(0, 0, i)
			c.SetPrice("AAPL", d, float64(i))
			c.Get("AAPL", d)
		}(i)
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Errorf("Len = %d, want 50", c.Len())
	}
}

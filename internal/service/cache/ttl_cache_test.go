package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	c.Set("forecast:AAPL:30", 42, time.Minute)

	v, ok := c.Get("forecast:AAPL:30")
	if !ok {
		t.Fatal("expected hit")
	}
	if v.(int) != 42 {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewTTLCache()
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 1, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCacheNoExpiryForZeroTTL(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 1, 0)

	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected entry without expiry to stay")
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := NewTTLCache()
	c.Set("forecast:AAPL:30", 1, time.Minute)
	c.Set("forecast:AAPL:90", 2, time.Minute)
	c.Set("forecast:GOOGL:30", 3, time.Minute)

	c.Invalidate("forecast:AAPL:")

	if _, ok := c.Get("forecast:AAPL:30"); ok {
		t.Fatal("expected AAPL 30 to be dropped")
	}
	if _, ok := c.Get("forecast:AAPL:90"); ok {
		t.Fatal("expected AAPL 90 to be dropped")
	}
	if _, ok := c.Get("forecast:GOOGL:30"); !ok {
		t.Fatal("GOOGL entry must survive")
	}
}

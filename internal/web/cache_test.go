package web

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache[int](time.Minute)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache should miss")
	}

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", got, ok)
	}

	c.Set("a", 2)
	if got, _ := c.Get("a"); got != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string](10 * time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry should hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestCacheDeletePrefix(t *testing.T) {
	c := NewCache[int](time.Minute)
	defer c.Close()

	c.Set("chart:100:2023", 1)
	c.Set("chart:100:2024", 2)
	c.Set("chart:1009:2024", 3)

	c.DeletePrefix("chart:100:")

	if _, ok := c.Get("chart:100:2023"); ok {
		t.Error("chart:100:2023 should be gone")
	}
	if _, ok := c.Get("chart:100:2024"); ok {
		t.Error("chart:100:2024 should be gone")
	}
	if _, ok := c.Get("chart:1009:2024"); !ok {
		t.Error("chart:1009:2024 should survive")
	}
}

func TestCacheSweep(t *testing.T) {
	c := NewCache[int](5 * time.Millisecond)
	defer c.Close()

	c.Set("k", 1)
	time.Sleep(10 * time.Millisecond)
	c.sweep()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}

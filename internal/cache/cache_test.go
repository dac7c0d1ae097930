package cache

import (
	"testing"
	"time"
)

func TestSetGetExpire(t *testing.T) {
	c := New[string](nil)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("k", "v", 50*time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get = (%q, %v)", v, ok)
	}

	c.Set("short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Fatal("expired entry still served")
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("deleted entry still served")
	}
}

func TestCloneIsolatesCallers(t *testing.T) {
	c := New(func(v []int) []int { return append([]int(nil), v...) })

	original := []int{1, 2, 3}
	c.Set("nums", original, time.Minute)
	original[0] = 99

	got, ok := c.Get("nums")
	if !ok || got[0] != 1 {
		t.Fatalf("cached slice was mutated: %v", got)
	}

	got[1] = 99
	again, _ := c.Get("nums")
	if again[1] != 2 {
		t.Fatalf("reader mutation leaked into cache: %v", again)
	}
}

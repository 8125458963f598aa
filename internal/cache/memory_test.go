package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestNewMemory(t *testing.T) {
	m := NewMemory()
	if m == nil {
		t.Fatal("NewMemory() returned nil")
	}
	if m.Count() != 0 {
		t.Errorf("NewMemory() should start empty, got %d entries", m.Count())
	}
	if !m.LastFlush().IsZero() {
		t.Error("LastFlush() should be zero before any flush")
	}
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "home"); ok || err != nil {
		t.Fatalf("Get() on empty cache = ok=%v err=%v, want miss", ok, err)
	}

	if err := m.Set(ctx, "home", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok, err := m.Get(ctx, "home")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v, want hit", ok, err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get() = %s, want {\"a\":1}", got)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "k", []byte("abc"))

	got, _, _ := m.Get(ctx, "k")
	got[0] = 'z'

	again, _, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("cached value was mutated through Get(): %s", again)
	}
}

func TestMemoryFlush(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	if err := m.Flush(ctx); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	if m.Count() != 0 {
		t.Errorf("Count() after Flush() = %d, want 0", m.Count())
	}
	if m.LastFlush().IsZero() {
		t.Error("LastFlush() should be set after Flush()")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, fmt.Sprintf("k%d", i%10), []byte("v"))
		}(i)
		go func() {
			defer wg.Done()
			_, _, _ = m.Get(ctx, "k1")
		}()
	}
	wg.Wait()

	if m.Count() != 10 {
		t.Errorf("Count() = %d, want 10", m.Count())
	}
}

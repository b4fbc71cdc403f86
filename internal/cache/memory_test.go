// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	value := []byte("header")
	if err := c.Set(ctx, "menu:1", value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, err := c.Get(ctx, "menu:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "header" {
		t.Errorf("Get = %q, want %q (stored value must be a copy)", got, "header")
	}

	got[0] = 'Y'
	again, _ := c.Get(ctx, "menu:1")
	if string(again) != "header" {
		t.Errorf("returned slice aliases stored value: %q", again)
	}

	if _, err := c.Get(ctx, "menu:2"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(expired) err = %v, want ErrCacheMiss", err)
	}
	if n := c.Stats().Items; n != 0 {
		t.Errorf("expired entry still counted: %d items", n)
	}
}

func TestMemoryCache_MaxSizeEvictsOldest(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 2})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	time.Sleep(2 * time.Millisecond)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	time.Sleep(2 * time.Millisecond)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest entry should have been evicted, err = %v", err)
	}
	for _, k := range []string{"b", "c"} {
		if _, err := c.Get(ctx, k); err != nil {
			t.Errorf("Get(%s): %v", k, err)
		}
	}

	// Overwriting an existing key never evicts.
	_ = c.Set(ctx, "c", []byte("33"), 0)
	if _, err := c.Get(ctx, "b"); err != nil {
		t.Errorf("overwrite evicted b: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "menu:1", []byte("1"), 0)
	_ = c.Set(ctx, "menu:2", []byte("2"), 0)
	_ = c.Set(ctx, "other", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "menu:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if n := c.Stats().Items; n != 1 {
		t.Errorf("Items = %d, want 1", n)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := c.Stats().Items; n != 0 {
		t.Errorf("Items after Clear = %d, want 0", n)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("abc"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Sets != 1 || s.Size != 3 {
		t.Errorf("Stats = %+v", s)
	}
	if s.HitRate < 66 || s.HitRate > 67 {
		t.Errorf("HitRate = %f, want ~66.7", s.HitRate)
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Sets != 0 {
		t.Errorf("Stats after reset = %+v", s)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewMemoryCache(MemoryCacheOptions{CleanupInterval: 5 * time.Millisecond})
	ctx := context.Background()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = c.Close()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close err = %v", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close err = %v", err)
	}
	if err := c.Ping(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close err = %v", err)
	}
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "not a url"

	c, backend := NewCache(cfg)
	defer func() { _ = c.Close() }()

	if backend != BackendMemory {
		t.Errorf("backend = %s, want %s", backend, BackendMemory)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("NewCache returned %T, want *MemoryCache", c)
	}
}

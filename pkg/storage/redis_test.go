package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*RedisStore, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ""), client, mr
}

func TestRedisStore_IntDefaults(t *testing.T) {
	store, _, _ := setupTestRedis(t)
	ctx := context.Background()

	v, err := store.GetInt(ctx, "missing", 42)
	if err != nil {
		t.Fatalf("GetInt() error = %v", err)
	}
	if v != 42 {
		t.Errorf("GetInt() = %d, expected default 42", v)
	}

	if err := store.SetInt(ctx, "counter", 7); err != nil {
		t.Fatalf("SetInt() error = %v", err)
	}
	v, err = store.GetInt(ctx, "counter", 0)
	if err != nil {
		t.Fatalf("GetInt() error = %v", err)
	}
	if v != 7 {
		t.Errorf("GetInt() = %d, expected 7", v)
	}
}

func TestRedisStore_TimeRoundTrip(t *testing.T) {
	store, _, _ := setupTestRedis(t)
	ctx := context.Background()

	_, ok, err := store.GetTime(ctx, KeyInstallDate)
	if err != nil {
		t.Fatalf("GetTime() error = %v", err)
	}
	if ok {
		t.Error("GetTime() reported ok for a key that was never written")
	}

	// Storage granularity is milliseconds.
	want := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	if err := store.SetTime(ctx, KeyInstallDate, want); err != nil {
		t.Fatalf("SetTime() error = %v", err)
	}

	got, ok, err := store.GetTime(ctx, KeyInstallDate)
	if err != nil {
		t.Fatalf("GetTime() error = %v", err)
	}
	if !ok {
		t.Fatal("GetTime() reported missing after write")
	}
	if got.UnixMilli() != want.UnixMilli() {
		t.Errorf("GetTime() = %v, expected %v", got, want)
	}
}

func TestRedisStore_BoolAndString(t *testing.T) {
	store, _, _ := setupTestRedis(t)
	ctx := context.Background()

	b, err := store.GetBool(ctx, "flag", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if !b {
		t.Error("GetBool() did not return the default for a missing key")
	}

	if err := store.SetBool(ctx, "flag", false); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	b, err = store.GetBool(ctx, "flag", true)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if b {
		t.Error("GetBool() = true, expected false after write")
	}

	if err := store.SetString(ctx, KeyPlatformPromptTimestamps, "1,2,3"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	s, ok, err := store.GetString(ctx, KeyPlatformPromptTimestamps)
	if err != nil {
		t.Fatalf("GetString() error = %v", err)
	}
	if !ok || s != "1,2,3" {
		t.Errorf("GetString() = %q ok=%v, expected \"1,2,3\"", s, ok)
	}
}

func TestRedisStore_ClearAllRespectsPrefix(t *testing.T) {
	store, client, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := store.SetInt(ctx, EventCountKey("purchase"), 3); err != nil {
		t.Fatalf("SetInt() error = %v", err)
	}
	if err := store.SetString(ctx, KeyPlatformPromptTimestamps, "100"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	// A key outside the store's prefix must survive ClearAll.
	if err := client.Set(ctx, "unrelated", "keep", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	v, err := store.GetInt(ctx, EventCountKey("purchase"), 0)
	if err != nil {
		t.Fatalf("GetInt() error = %v", err)
	}
	if v != 0 {
		t.Errorf("event count = %d after ClearAll, expected 0", v)
	}

	kept, err := client.Get(ctx, "unrelated").Result()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if kept != "keep" {
		t.Errorf("unrelated key = %q, expected to survive ClearAll", kept)
	}
}

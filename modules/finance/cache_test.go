package finance

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key derivation needs no Redis; it must separate windows and rate inputs.
func TestSnapshotCacheKey(t *testing.T) {
	cache := NewSnapshotCache(nil)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	rates := RateConfig{DeliveryFee: 100, ReturnFee: 50, WorkerCount: 3}

	base := cache.Key("t1", from, to, rates)

	t.Run("differs by tenant", func(t *testing.T) {
		if cache.Key("t2", from, to, rates) == base {
			t.Error("keys collide across tenants")
		}
	})

	t.Run("differs by window", func(t *testing.T) {
		if cache.Key("t1", from, to.AddDate(0, 1, 0), rates) == base {
			t.Error("keys collide across report windows")
		}
	})

	t.Run("differs by rates", func(t *testing.T) {
		other := rates
		other.DeliveryFee = 120
		if cache.Key("t1", from, to, other) == base {
			t.Error("keys collide across fee overrides")
		}
	})
}

// A nil cache (Redis disabled) is a valid no-op.
func TestSnapshotCacheDisabled(t *testing.T) {
	ctx := context.Background()

	for name, cache := range map[string]*SnapshotCache{
		"nil cache":  nil,
		"nil client": NewSnapshotCache(nil),
	} {
		t.Run(name, func(t *testing.T) {
			if err := cache.Set(ctx, "k", &Report{GrossRevenue: 1}); err != nil {
				t.Errorf("Set() error = %v, want nil", err)
			}
			report, found, err := cache.Get(ctx, "k")
			if err != nil || found || report != nil {
				t.Errorf("Get() = %v, %v, %v, want nil, false, nil", report, found, err)
			}
			if err := cache.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v, want nil", err)
			}
		})
	}
}

// Requires Redis running on localhost:6379; skipped otherwise.
func TestSnapshotCacheRoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	cache := NewSnapshotCache(client)
	key := cache.Key("test-roundtrip", time.Unix(0, 0), time.Unix(86400, 0), RateConfig{})
	defer client.Del(ctx, cache.prefix+key)

	if _, found, err := cache.Get(ctx, key); err != nil || found {
		t.Fatalf("Get() before Set = found %v, err %v", found, err)
	}

	want := &Report{GrossRevenue: 1000, NetProfit: 250, DeliveredCount: 4}
	if err := cache.Set(ctx, key, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found, err := cache.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get() after Set = found %v, err %v", found, err)
	}
	if got.GrossRevenue != want.GrossRevenue || got.NetProfit != want.NetProfit || got.DeliveredCount != want.DeliveredCount {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

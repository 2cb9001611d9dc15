package service

import (
	"testing"
	"time"
)

func newTestRateLimiter(t *testing.T, perSecond float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(perSecond, burst)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_AllowsUpToBurst(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	if rl.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestRateLimiter_DifferentKeysAreIndependent(t *testing.T) {
	rl := newTestRateLimiter(t, 1, 1)

	if !rl.Allow("ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if rl.Allow("ip-a") {
		t.Fatal("ip-a second request should be denied")
	}
	if !rl.Allow("ip-b") {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestRateLimiter_ZeroRateNeverRefills(t *testing.T) {
	rl := newTestRateLimiter(t, 0, 2)

	if !rl.Allow("k") || !rl.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := newTestRateLimiter(t, 0, 1)

	if !rl.Allow("stale") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("stale") {
		t.Fatal("second request should be denied")
	}

	// An evicted key starts over with a full bucket.
	rl.evictIdle(time.Now().Add(time.Second))
	if !rl.Allow("stale") {
		t.Fatal("request after eviction should be allowed")
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()
}

package ratelimiter

import (
	"testing"
	"time"
)

func TestTokenBucketAllowsBurstUpToCapacity(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d denied within capacity", i)
		}
	}
	if tb.Allow() {
		t.Errorf("request allowed with an empty bucket")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(100, 1)

	if !tb.Allow() {
		t.Fatalf("first request denied")
	}
	if tb.Allow() {
		t.Fatalf("second request allowed without refill")
	}

	time.Sleep(20 * time.Millisecond)

	if !tb.Allow() {
		t.Errorf("request denied after refill interval")
	}
}

package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreaker_TripAndRecover(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.MarkFailure()
	if state := b.State(); state != BreakerClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.MarkFailure()
	if state := b.State(); state != BreakerOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected breaker open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != BreakerHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.MarkSuccess()
	if state := b.State(); state != BreakerClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 1})

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }

	b.MarkFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.MarkFailure()

	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected breaker to reopen after failed probe, got %v", err)
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 2})

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }

	b.MarkFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe 1: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("probe 2: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected probe limit to reject, got %v", err)
	}
}

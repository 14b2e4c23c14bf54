package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// Breaker trips after a run of consecutive failures and lets a limited
// number of probe requests through once the open timeout elapses.
type Breaker struct {
	mu sync.Mutex

	cfg BreakerConfig

	state        BreakerState
	failureRun   int
	openedAt     time.Time
	probesActive int
	probesPassed int

	clock func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{
		cfg:   cfg.Normalized(),
		state: BreakerClosed,
		clock: time.Now,
	}
}

// Allow reports whether a request may proceed. Callers that get nil back
// must follow up with MarkSuccess or MarkFailure.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.clock().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrBreakerOpen
		}
		b.enterHalfOpen()
	}

	if b.state == BreakerHalfOpen {
		if b.probesActive >= b.cfg.HalfOpenProbes {
			return ErrBreakerOpen
		}
		b.probesActive++
	}

	return nil
}

func (b *Breaker) MarkSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureRun = 0
	case BreakerHalfOpen:
		if b.probesActive > 0 {
			b.probesActive--
		}
		b.probesPassed++
		if b.probesPassed >= b.cfg.HalfOpenProbes && b.probesActive == 0 {
			b.enterClosed()
		}
	}
}

func (b *Breaker) MarkFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureRun++
		if b.failureRun >= b.cfg.FailureThreshold {
			b.enterOpen()
		}
	case BreakerHalfOpen:
		if b.probesActive > 0 {
			b.probesActive--
		}
		b.enterOpen()
	case BreakerOpen:
		b.openedAt = b.clock()
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.clock().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) enterClosed() {
	b.state = BreakerClosed
	b.failureRun = 0
	b.probesActive = 0
	b.probesPassed = 0
	b.openedAt = time.Time{}
}

func (b *Breaker) enterOpen() {
	b.state = BreakerOpen
	b.openedAt = b.clock()
	b.probesActive = 0
	b.probesPassed = 0
}

func (b *Breaker) enterHalfOpen() {
	b.state = BreakerHalfOpen
	b.probesActive = 0
	b.probesPassed = 0
}

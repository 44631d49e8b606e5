package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen allows a limited number of trial requests to test recovery.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker wraps calls to a flaky dependency. After failureThreshold
// consecutive failures the circuit opens; after timeout it half-opens and
// closes again once successThreshold trial calls succeed in a row.
type Breaker struct {
	failureThreshold uint32
	successThreshold uint32
	timeout          time.Duration

	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openedAt  time.Time
}

// New creates a new Breaker with the specified settings.
func New(failureThreshold, successThreshold uint32, timeout time.Duration) *Breaker {
	return &Breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
	}
}

// State returns the current state of the circuit breaker.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do runs fn under the breaker. When the circuit is open it returns
// ErrCircuitOpen without invoking fn.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == Open {
		if time.Since(b.openedAt) <= b.timeout {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.state = HalfOpen
		b.successes = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

// onFailure must be called with the mutex held.
func (b *Breaker) onFailure() {
	switch b.state {
	case HalfOpen:
		// A single failure during the trial period re-opens the circuit.
		b.trip()
	case Closed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	}
}

// onSuccess must be called with the mutex held.
func (b *Breaker) onSuccess() {
	switch b.state {
	case HalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = Closed
			b.failures = 0
			b.successes = 0
		}
	case Closed:
		b.failures = 0
	}
}

func (b *Breaker) trip() {
	b.state = Open
	b.failures = 0
	b.successes = 0
	b.openedAt = time.Now()
}

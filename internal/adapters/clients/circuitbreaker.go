package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker position.
type State int

const (
	// StateClosed lets requests through.
	StateClosed State = iota

	// StateOpen blocks requests until the cool-down passes.
	StateOpen

	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures int

	// Timeout is the cool-down spent open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the probe concurrency and the number of
	// successful probes needed to close again.
	HalfOpenLimit int
}

// CircuitBreaker stops hammering the quote service once it keeps failing.
//
//   - Closed → Open after MaxFailures consecutive failures
//   - Open → HalfOpen once Timeout has passed
//   - HalfOpen → Closed after HalfOpenLimit successes
//   - HalfOpen → Open on any failure
type CircuitBreaker struct {
	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	inFlight    int
	openedAt    time.Time
	cfg         CircuitBreakerConfig
	onChange    func(from, to State)
	now         func() time.Time
	transitions []transition
}

type transition struct{ from, to State }

// NewCircuitBreaker creates a closed circuit breaker. Non-positive limits
// are raised to one.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
		now:   time.Now,
	}
}

// OnStateChange registers fn to run after every transition, outside the lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	allowed := cb.allowLocked()
	notify := cb.drainLocked()
	cb.mu.Unlock()

	notify()

	return allowed
}

func (cb *CircuitBreaker) allowLocked() bool {
	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			return false
		}

		cb.transitionLocked(StateHalfOpen)
		cb.inFlight = 1

		return true
	case StateHalfOpen:
		if cb.inFlight >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.inFlight++

		return true
	default:
		return false
	}
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.inFlight = max(cb.inFlight-1, 0)
		cb.successes++

		if cb.successes >= cb.cfg.HalfOpenLimit {
			cb.transitionLocked(StateClosed)
		}
	}

	notify := cb.drainLocked()
	cb.mu.Unlock()

	notify()
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		cb.inFlight = max(cb.inFlight-1, 0)
		cb.transitionLocked(StateOpen)
	}

	notify := cb.drainLocked()
	cb.mu.Unlock()

	notify()
}

// Abandon returns a probe slot for a request the caller gave up on. It
// counts as neither success nor failure.
func (cb *CircuitBreaker) Abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.inFlight = max(cb.inFlight-1, 0)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	if cb.state == to {
		return
	}

	cb.transitions = append(cb.transitions, transition{from: cb.state, to: to})
	cb.state = to
	cb.failures = 0
	cb.successes = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
		cb.inFlight = 0
	}
}

// drainLocked returns a closure that reports pending transitions once the
// caller has released the lock.
func (cb *CircuitBreaker) drainLocked() func() {
	pending, fn := cb.transitions, cb.onChange
	cb.transitions = nil

	return func() {
		if fn == nil {
			return
		}

		for _, t := range pending {
			fn(t.from, t.to)
		}
	}
}

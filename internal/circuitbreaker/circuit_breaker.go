package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
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

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	Name string

	// MaxFailures consecutive failures open the breaker.
	MaxFailures int

	// Timeout is how long the breaker stays open before letting trial requests through.
	Timeout time.Duration

	// MaxRequests limits concurrent trial requests while half-open.
	MaxRequests int
}

// Counts is a snapshot of the breaker's counters.
type Counts struct {
	State          State
	Failures       int
	TotalRequests  int64
	TotalFailures  int64
	TotalSuccesses int64
	StateChanges   int64
}

type CircuitBreaker struct {
	name        string
	maxFailures int
	timeout     time.Duration
	maxRequests int

	mutex        sync.Mutex
	state        State
	failures     int
	requests     int
	lastFailTime time.Time

	totalRequests  int64
	totalFailures  int64
	totalSuccesses int64
	stateChanges   int64

	now    func() time.Time
	logger *slog.Logger
}

func New(config Config, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}

	if config.Name == "" {
		config.Name = "unnamed"
	}

	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.MaxFailures > 1000 {
		config.MaxFailures = 1000
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Timeout > 10*time.Minute {
		config.Timeout = 10 * time.Minute
	}

	if config.MaxRequests <= 0 {
		config.MaxRequests = 1
	}
	if config.MaxRequests > 100 {
		config.MaxRequests = 100
	}

	return &CircuitBreaker{
		name:        config.Name,
		maxFailures: config.MaxFailures,
		timeout:     config.Timeout,
		maxRequests: config.MaxRequests,
		state:       StateClosed,
		now:         time.Now,
		logger:      logger,
	}
}

// Execute runs fn unless the breaker is open. A context cancelled by the caller
// does not count as a failure of the protected collaborator.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn(ctx)

	cb.after(ctx, err)

	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.lastFailTime) <= cb.timeout {
			return fmt.Errorf("%s: %w", cb.name, ErrOpen)
		}
		cb.setState(StateHalfOpen)
		cb.requests = 0
	}

	if cb.state == StateHalfOpen && cb.requests >= cb.maxRequests {
		return fmt.Errorf("%s: half-open requests[%d]: %w", cb.name, cb.requests, ErrOpen)
	}

	cb.totalRequests++
	if cb.state == StateHalfOpen {
		cb.requests++
	}

	return nil
}

func (cb *CircuitBreaker) after(ctx context.Context, err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err == nil {
		cb.totalSuccesses++
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.setState(StateClosed)
			cb.requests = 0
		}
		return
	}

	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		if cb.state == StateHalfOpen && cb.requests > 0 {
			cb.requests--
		}
		return
	}

	cb.totalFailures++
	cb.failures++
	cb.lastFailTime = cb.now()

	switch {
	case cb.state == StateClosed && cb.failures >= cb.maxFailures:
		cb.setState(StateOpen)
		cb.requests = 0
	case cb.state == StateHalfOpen:
		cb.setState(StateOpen)
		cb.requests = 0
	}
}

// setState must be called with the mutex held.
func (cb *CircuitBreaker) setState(newState State) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState
	cb.stateChanges++

	cb.logger.Info("circuit breaker state changed",
		"method", "CircuitBreaker.setState",
		"circuitBreaker", cb.name,
		"from", oldState.String(),
		"to", newState.String())
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Counts() Counts {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return Counts{
		State:          cb.state,
		Failures:       cb.failures,
		TotalRequests:  cb.totalRequests,
		TotalFailures:  cb.totalFailures,
		TotalSuccesses: cb.totalSuccesses,
		StateChanges:   cb.stateChanges,
	}
}

func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.setState(StateClosed)
	cb.failures = 0
	cb.requests = 0
	cb.lastFailTime = time.Time{}
}

func (cb *CircuitBreaker) String() string {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return fmt.Sprintf("CircuitBreaker(name=%s, state=%s, failures=%d/%d)",
		cb.name, cb.state.String(), cb.failures, cb.maxFailures)
}

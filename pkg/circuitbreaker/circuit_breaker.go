package circuitbreaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State represents the state of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreaker protects slow external calls from being hammered while the
// service behind them is down. After maxFailures consecutive failures the
// circuit opens; once the recovery timeout elapses a single probe call is
// allowed through, and its outcome reopens or closes the circuit.
type CircuitBreaker struct {
	name        string
	maxFailures int
	timeout     time.Duration

	mu              sync.Mutex
	state           State
	failures        int
	lastFailureTime time.Time

	logger *logrus.Logger
}

func New(name string, maxFailures int, timeout time.Duration, logger *logrus.Logger) *CircuitBreaker {
	if logger == nil {
		logger = logrus.New()
	}
	return &CircuitBreaker{
		name:        name,
		maxFailures: maxFailures,
		timeout:     timeout,
		state:       StateClosed,
		logger:      logger,
	}
}

// Execute runs fn if the circuit allows it, recording the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.allowRequest() {
		return &OpenError{Name: cb.name, State: cb.State()}
	}

	err := fn(ctx)
	if err != nil {
		cb.onFailure()
		return err
	}

	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.lastFailureTime) >= cb.timeout {
			cb.state = StateHalfOpen
			cb.logger.WithFields(logrus.Fields{
				"circuit_breaker": cb.name,
				"state":           cb.state.String(),
			}).Info("Circuit breaker allowing probe call")
			return true
		}
		return false
	case StateHalfOpen:
		// One probe at a time.
		return false
	default:
		return false
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.logger.WithFields(logrus.Fields{
			"circuit_breaker": cb.name,
			"state":           StateClosed.String(),
		}).Info("Circuit breaker closed after successful recovery")
	}
	cb.state = StateClosed
	cb.failures = 0
}

func (cb *CircuitBreaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = time.Now()

	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != StateOpen {
			cb.logger.WithFields(logrus.Fields{
				"circuit_breaker": cb.name,
				"failures":        cb.failures,
				"state":           StateOpen.String(),
			}).Warn("Circuit breaker opened due to failures")
		}
		cb.state = StateOpen
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// OpenError is returned when a call is rejected by an open circuit.
type OpenError struct {
	Name  string
	State State
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker '%s' is %s", e.Name, e.State)
}

// IsOpenError checks whether an error is a circuit rejection.
func IsOpenError(err error) bool {
	_, ok := err.(*OpenError)
	return ok
}

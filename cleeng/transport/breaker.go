package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrCircuitOpen is returned without contacting the endpoint while the
// breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

type cbState int

const (
	cbClosed cbState = iota
	cbOpen
	cbHalfOpen
)

func (s cbState) String() string {
	switch s {
	case cbOpen:
		return "open"
	case cbHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	FailureThreshold    int
	RecoveryTimeout     time.Duration
	HalfOpenMaxRequests int
	Logger              zerolog.Logger
}

// Breaker stops sending batches after consecutive transport failures and
// probes again after RecoveryTimeout
type Breaker struct {
	next            Caller
	cfg             BreakerConfig
	logger          zerolog.Logger
	state           cbState
	failures        int
	halfOpenSuccess int
	halfOpenFlight  int
	lastFailureAt   time.Time
	now             func() time.Time
	mu              sync.Mutex
}

// NewBreaker wraps next with a circuit breaker
func NewBreaker(next Caller, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxRequests <= 0 {
		cfg.HalfOpenMaxRequests = 2
	}
	return &Breaker{
		next:   next,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "breaker").Logger(),
		state:  cbClosed,
		now:    time.Now,
	}
}

// Call implements Caller
func (b *Breaker) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	if !b.allowRequest() {
		return nil, ErrCircuitOpen
	}

	resp, err := b.next.Call(ctx, endpoint, body)
	if err != nil {
		// Caller cancellation says nothing about the endpoint
		if ctx.Err() != nil {
			b.release()
		} else {
			b.recordFailure()
		}
		return nil, err
	}
	b.recordSuccess()
	return resp, nil
}

// State names the current breaker state
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}

func (b *Breaker) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbClosed:
		return true
	case cbHalfOpen:
		if b.halfOpenSuccess+b.halfOpenFlight < b.cfg.HalfOpenMaxRequests {
			b.halfOpenFlight++
			return true
		}
		return false
	case cbOpen:
		if b.now().Sub(b.lastFailureAt) >= b.cfg.RecoveryTimeout {
			b.setState(cbHalfOpen)
			b.halfOpenSuccess = 0
			b.halfOpenFlight = 1
			return true
		}
		return false
	default:
		return true
	}
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == cbHalfOpen && b.halfOpenFlight > 0 {
		b.halfOpenFlight--
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbHalfOpen:
		if b.halfOpenFlight > 0 {
			b.halfOpenFlight--
		}
		b.halfOpenSuccess++
		if b.halfOpenSuccess >= b.cfg.HalfOpenMaxRequests {
			b.setState(cbClosed)
			b.failures = 0
		}
	case cbClosed:
		b.failures = 0
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureAt = b.now()

	switch b.state {
	case cbClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.setState(cbOpen)
		}
	case cbHalfOpen:
		b.setState(cbOpen)
		b.halfOpenSuccess = 0
		b.halfOpenFlight = 0
	}
}

func (b *Breaker) setState(s cbState) {
	if b.state == s {
		return
	}
	b.logger.Info().Str("from", b.state.String()).Str("to", s.String()).Msg("circuit breaker state change")
	b.state = s
}

package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// Config controls retry behavior for calls to external services
type Config struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// BaseDelay is the delay before the first retry; each subsequent retry
	// doubles it
	BaseDelay time.Duration
	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration
	// AttemptTimeout bounds each individual attempt
	AttemptTimeout time.Duration
}

// DefaultConfig returns the standard retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		BaseDelay:      time.Second,
		MaxDelay:       10 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// RetryPredicate decides whether an error is worth retrying. Validation and
// business-rule errors are not; transport and timeout errors are.
type RetryPredicate func(error) bool

// RetryAll is the default predicate: every failure is retried until the
// attempts run out
func RetryAll(error) bool {
	return true
}

// RetryTransient retries timeouts and external service failures and surfaces
// everything else immediately. Callers whose operations can fail on business
// rules wire this instead of the default.
func RetryTransient(err error) bool {
	return shared.IsCode(err, shared.CodeTimeout) || shared.IsCode(err, shared.CodeExternalService)
}

// Executor runs operations against flaky external services with capped
// exponential backoff. An attempt that outlives its timeout is abandoned and
// its late result discarded, so a hung attempt cannot stall the caller.
type Executor struct {
	cfg    Config
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// ExecutorOption customizes an Executor
type ExecutorOption func(*Executor)

// WithSleeper replaces the delay function, used by tests to observe backoff
// without waiting for it.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) ExecutorOption {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// NewExecutor creates an Executor with the given configuration
func NewExecutor(cfg Config, logger *zap.Logger, opts ...ExecutorOption) *Executor {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 30 * time.Second
	}
	e := &Executor{cfg: cfg, logger: logger, sleep: sleepCtx}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs op until it succeeds, the retries are exhausted, or shouldRetry
// rejects the error. The error from the final attempt is returned unwrapped.
// A nil shouldRetry defaults to RetryAll.
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error, shouldRetry RetryPredicate) error {
	if shouldRetry == nil {
		shouldRetry = RetryAll
	}

	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := e.sleep(ctx, e.delayFor(attempt)); err != nil {
				return lastErr
			}
			e.logger.Info("retrying operation",
				zap.String("operation", name),
				zap.Int("attempt", attempt+1),
			)
		}

		lastErr = e.runAttempt(ctx, op)
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) {
			return lastErr
		}
		e.logger.Warn("operation attempt failed",
			zap.String("operation", name),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}
	return lastErr
}

// delayFor returns the backoff before the given retry attempt (1-based)
func (e *Executor) delayFor(attempt int) time.Duration {
	delay := e.cfg.BaseDelay << uint(attempt-1)
	if delay > e.cfg.MaxDelay || delay <= 0 {
		delay = e.cfg.MaxDelay
	}
	return delay
}

// runAttempt executes op under the per-attempt timeout. The operation runs in
// its own goroutine; when the timeout fires first the attempt is abandoned
// and whatever it eventually returns is dropped.
func (e *Executor) runAttempt(ctx context.Context, op func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.AttemptTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(attemptCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return shared.ErrTimeout
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

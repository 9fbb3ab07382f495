package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// recordingSleeper captures requested delays instead of waiting
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func newTestExecutor(cfg Config) (*Executor, *recordingSleeper) {
	sleeper := &recordingSleeper{}
	return NewExecutor(cfg, zap.NewNop(), WithSleeper(sleeper.sleep)), sleeper
}

func TestExecutorDo(t *testing.T) {
	transient := shared.NewDomainError(shared.CodeExternalService, "connection reset")

	t.Run("succeeds without retries", func(t *testing.T) {
		exec, sleeper := newTestExecutor(DefaultConfig())

		calls := 0
		err := exec.Do(context.Background(), "noop", func(context.Context) error {
			calls++
			return nil
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeper.delays)
	})

	t.Run("retries transient errors up to the limit", func(t *testing.T) {
		exec, _ := newTestExecutor(DefaultConfig())

		calls := 0
		err := exec.Do(context.Background(), "flaky", func(context.Context) error {
			calls++
			return transient
		}, nil)

		require.Error(t, err)
		assert.Equal(t, transient, err, "the last attempt's error is surfaced")
		assert.Equal(t, 4, calls, "one initial attempt plus three retries")
	})

	t.Run("recovers midway", func(t *testing.T) {
		exec, _ := newTestExecutor(DefaultConfig())

		calls := 0
		err := exec.Do(context.Background(), "flaky", func(context.Context) error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("delays double and are capped", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxRetries = 6
		exec, sleeper := newTestExecutor(cfg)

		_ = exec.Do(context.Background(), "flaky", func(context.Context) error {
			return transient
		}, nil)

		require.Len(t, sleeper.delays, 6)
		assert.Equal(t, time.Second, sleeper.delays[0])
		assert.Equal(t, 2*time.Second, sleeper.delays[1])
		assert.Equal(t, 4*time.Second, sleeper.delays[2])
		assert.Equal(t, 8*time.Second, sleeper.delays[3])
		assert.Equal(t, 10*time.Second, sleeper.delays[4], "backoff is capped")
		assert.Equal(t, 10*time.Second, sleeper.delays[5])
		for i := 1; i < len(sleeper.delays); i++ {
			assert.GreaterOrEqual(t, sleeper.delays[i], sleeper.delays[i-1])
		}
	})

	t.Run("nil predicate retries every failure", func(t *testing.T) {
		exec, _ := newTestExecutor(DefaultConfig())

		calls := 0
		err := exec.Do(context.Background(), "default", func(context.Context) error {
			calls++
			return errors.New("boom")
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 4, calls, "unclassified errors are retried by default")
	})

	t.Run("RetryTransient does not retry business errors", func(t *testing.T) {
		exec, sleeper := newTestExecutor(DefaultConfig())

		calls := 0
		invalid := shared.NewDomainError(shared.CodeInvalidInput, "bad period")
		err := exec.Do(context.Background(), "validate", func(context.Context) error {
			calls++
			return invalid
		}, RetryTransient)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeper.delays)
	})

	t.Run("custom predicate controls retries", func(t *testing.T) {
		exec, _ := newTestExecutor(DefaultConfig())

		sentinel := errors.New("try harder")
		calls := 0
		err := exec.Do(context.Background(), "custom", func(context.Context) error {
			calls++
			return sentinel
		}, func(err error) bool { return errors.Is(err, sentinel) })

		require.Error(t, err)
		assert.Equal(t, 4, calls)
	})

	t.Run("hung attempt is abandoned with a timeout error", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxRetries = 0
		cfg.AttemptTimeout = 20 * time.Millisecond
		exec, _ := newTestExecutor(cfg)

		err := exec.Do(context.Background(), "hung", func(ctx context.Context) error {
			<-time.After(5 * time.Second)
			return nil
		}, nil)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeTimeout))
	})

	t.Run("caller cancellation wins over retries", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxRetries = 5
		sleeper := &recordingSleeper{}
		exec := NewExecutor(cfg, zap.NewNop(), WithSleeper(func(ctx context.Context, d time.Duration) error {
			sleeper.delays = append(sleeper.delays, d)
			return context.Canceled
		}))

		calls := 0
		err := exec.Do(context.Background(), "cancelled", func(context.Context) error {
			calls++
			return transient
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls, "no further attempts after the sleeper reports cancellation")
		assert.Equal(t, transient, err, "the last real error is returned, not the cancellation")
	})
}

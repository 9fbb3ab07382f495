package event

import (
	"context"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/infrastructure/resilience"
)

// RetryingHandler wraps an event handler with the retry executor so transient
// failures (timeouts, flaky downstream stores) get retried before the delivery
// is given up. The wrapped handler must be idempotent; delivery is
// at-least-once either way.
type RetryingHandler struct {
	inner    shared.EventHandler
	executor *resilience.Executor
}

// NewRetryingHandler wraps handler with the executor's retry policy
func NewRetryingHandler(inner shared.EventHandler, executor *resilience.Executor) *RetryingHandler {
	return &RetryingHandler{inner: inner, executor: executor}
}

// EventTypes returns the wrapped handler's event types
func (h *RetryingHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// Handle delivers the event, retrying transient failures
func (h *RetryingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	return h.executor.Do(ctx, evt.EventType(), func(ctx context.Context) error {
		return h.inner.Handle(ctx, evt)
	}, resilience.RetryTransient)
}

var _ shared.EventHandler = (*RetryingHandler)(nil)

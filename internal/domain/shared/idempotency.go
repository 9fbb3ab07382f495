package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so side effects behind
// at-least-once delivery run exactly once per event. Entries expire after a
// TTL; durable uniqueness (like one balance report per payee and quarter)
// still belongs in the database, the store only cheapens the common replay.
type IdempotencyStore interface {
	// MarkProcessed records the event ID and reports whether it was newly
	// recorded. False means the event was already handled.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether the event ID has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Close releases store resources
	Close() error
}

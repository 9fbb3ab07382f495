package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// OperationType classifies an optimistic mutation
type OperationType string

const (
	OpCreate OperationType = "create"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
)

// PendingUpdate is an optimistic mutation awaiting confirmation. Original
// holds the pre-mutation snapshot needed to roll the resource back; it is nil
// for creates, where the rollback is removal.
type PendingUpdate[T any] struct {
	ID         uint64
	Operation  OperationType
	ResourceID uuid.UUID
	Item       T
	Original   *T
	AppliedAt  time.Time
}

// Coordinator owns a working set of resources and serializes optimistic
// mutations against it. Apply mutates the working set immediately and records
// a pending entry; Confirm settles it once the authoritative write succeeds,
// and Revert restores the working set to its pre-apply state when the write
// fails. While one update is in flight for a resource, further updates to it
// are rejected with CONFLICTING_OPERATION rather than queued, so a revert
// always restores a state the user actually saw.
type Coordinator[T any] struct {
	mu         sync.Mutex
	nextID     uint64
	items      map[uuid.UUID]T
	pending    map[uint64]*PendingUpdate[T]
	byResource map[uuid.UUID]uint64
	logger     *zap.Logger
}

// NewCoordinator creates a Coordinator with an empty working set
func NewCoordinator[T any](logger *zap.Logger) *Coordinator[T] {
	return &Coordinator[T]{
		items:      make(map[uuid.UUID]T),
		pending:    make(map[uint64]*PendingUpdate[T]),
		byResource: make(map[uuid.UUID]uint64),
		logger:     logger,
	}
}

// Put refreshes the tracked copy of a resource from an authoritative read.
// It is rejected with CONFLICTING_OPERATION while a mutation is pending, so
// a revert never restores a snapshot taken mid-flight.
func (c *Coordinator[T]) Put(resourceID uuid.UUID, item T) error {
	if resourceID == uuid.Nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "resource_id", "resource ID is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if inflight, busy := c.byResource[resourceID]; busy {
		return shared.NewDomainError(shared.CodeConflictingOperation,
			fmt.Sprintf("Update %d is still in flight for resource %s", inflight, resourceID))
	}
	c.items[resourceID] = item
	return nil
}

// Apply mutates the working set and returns the update's ID. IDs are
// monotonically increasing so callers can order concurrent confirmations.
// Creates insert the item, updates replace the tracked copy, deletes remove
// it; updates and deletes require the resource to be tracked.
func (c *Coordinator[T]) Apply(_ context.Context, op OperationType, resourceID uuid.UUID, item T) (uint64, error) {
	if resourceID == uuid.Nil {
		return 0, shared.NewFieldError(shared.CodeInvalidInput, "resource_id", "resource ID is required")
	}
	if op != OpCreate && op != OpUpdate && op != OpDelete {
		return 0, shared.NewFieldError(shared.CodeInvalidInput, "operation", "unknown operation type: "+string(op))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if inflight, busy := c.byResource[resourceID]; busy {
		return 0, shared.NewDomainError(shared.CodeConflictingOperation,
			fmt.Sprintf("Update %d is still in flight for resource %s", inflight, resourceID))
	}

	var original *T
	switch op {
	case OpCreate:
		if _, exists := c.items[resourceID]; exists {
			return 0, shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("Resource %s already exists in the working set", resourceID))
		}
		c.items[resourceID] = item
	case OpUpdate:
		prior, exists := c.items[resourceID]
		if !exists {
			return 0, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Resource %s is not tracked in the working set", resourceID))
		}
		original = &prior
		c.items[resourceID] = item
	case OpDelete:
		prior, exists := c.items[resourceID]
		if !exists {
			return 0, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Resource %s is not tracked in the working set", resourceID))
		}
		original = &prior
		delete(c.items, resourceID)
	}

	c.nextID++
	update := &PendingUpdate[T]{
		ID:         c.nextID,
		Operation:  op,
		ResourceID: resourceID,
		Item:       item,
		Original:   original,
		AppliedAt:  time.Now(),
	}
	c.pending[update.ID] = update
	c.byResource[resourceID] = update.ID

	c.logger.Debug("optimistic update applied",
		zap.Uint64("update_id", update.ID),
		zap.String("operation", string(op)),
		zap.String("resource_id", resourceID.String()),
	)
	return update.ID, nil
}

// Confirm settles a pending update after the authoritative write succeeded.
// The snapshot is discarded and the resource is free for the next mutation.
func (c *Coordinator[T]) Confirm(updateID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	update, ok := c.pending[updateID]
	if !ok {
		return shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("No pending update with ID %d", updateID))
	}
	c.release(update)
	return nil
}

// Revert abandons a pending update after the authoritative write failed and
// restores the working set to its pre-apply state: the item is removed for
// creates and the snapshot reinstated for updates and deletes. The settled
// update is returned so the caller can inspect what was rolled back.
func (c *Coordinator[T]) Revert(updateID uint64) (*PendingUpdate[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	update, ok := c.pending[updateID]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("No pending update with ID %d", updateID))
	}

	switch update.Operation {
	case OpCreate:
		delete(c.items, update.ResourceID)
	case OpUpdate, OpDelete:
		c.items[update.ResourceID] = *update.Original
	}
	c.release(update)

	c.logger.Info("optimistic update reverted",
		zap.Uint64("update_id", update.ID),
		zap.String("operation", string(update.Operation)),
		zap.String("resource_id", update.ResourceID.String()),
	)
	return update, nil
}

// Get returns the tracked copy of a resource
func (c *Coordinator[T]) Get(resourceID uuid.UUID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[resourceID]
	return item, ok
}

// Snapshot returns a copy of the working set
func (c *Coordinator[T]) Snapshot() map[uuid.UUID]T {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[uuid.UUID]T, len(c.items))
	for id, item := range c.items {
		snapshot[id] = item
	}
	return snapshot
}

// InFlight reports whether a mutation is pending for the resource
func (c *Coordinator[T]) InFlight(resourceID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.byResource[resourceID]
	return busy
}

// PendingCount returns the number of unsettled updates
func (c *Coordinator[T]) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// release must be called with the mutex held
func (c *Coordinator[T]) release(update *PendingUpdate[T]) {
	delete(c.pending, update.ID)
	delete(c.byResource, update.ResourceID)
}

package works

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// Event type names for the works context
const (
	EventTypeWorkRegistered    = "WorkRegistered"
	EventTypeWorkSharesUpdated = "WorkSharesUpdated"
)

// WorkRegisteredEvent is raised when a new work is registered
type WorkRegisteredEvent struct {
	shared.BaseDomainEvent
	WorkID uuid.UUID `json:"work_id"`
	Title  string    `json:"title"`
}

// EventType returns the event type name
func (e *WorkRegisteredEvent) EventType() string {
	return EventTypeWorkRegistered
}

// NewWorkRegisteredEvent creates a new WorkRegisteredEvent
func NewWorkRegisteredEvent(w *Work) *WorkRegisteredEvent {
	return &WorkRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkRegistered, "Work", w.ID, w.TenantID),
		WorkID:          w.ID,
		Title:           w.Title,
	}
}

// WorkSharesUpdatedEvent is raised whenever writer or publisher shares change
type WorkSharesUpdatedEvent struct {
	shared.BaseDomainEvent
	WorkID          uuid.UUID       `json:"work_id"`
	Title           string          `json:"title"`
	WriterTotal     decimal.Decimal `json:"writer_total"`
	PublisherTotal  decimal.Decimal `json:"publisher_total"`
	ControlledTotal decimal.Decimal `json:"controlled_total"`
}

// EventType returns the event type name
func (e *WorkSharesUpdatedEvent) EventType() string {
	return EventTypeWorkSharesUpdated
}

// NewWorkSharesUpdatedEvent creates a new WorkSharesUpdatedEvent
func NewWorkSharesUpdatedEvent(w *Work) *WorkSharesUpdatedEvent {
	return &WorkSharesUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkSharesUpdated, "Work", w.ID, w.TenantID),
		WorkID:          w.ID,
		Title:           w.Title,
		WriterTotal:     w.WriterShareTotal(),
		PublisherTotal:  w.PublisherShareTotal(),
		ControlledTotal: w.ControlledPercentageTotal(),
	}
}

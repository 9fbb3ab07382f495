package payout

import (
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypePayoutCreated          = "payout.created"
	EventTypePayoutUpdated          = "payout.updated"
	EventTypePayoutStatusChanged    = "payout.status_changed"
	EventTypeQuarterlyReportCreated = "payout.quarterly_report_created"
	EventTypeBatchCompleted         = "payout.batch_completed"
)

// PayoutCreatedEvent is emitted when a payout draft is created
type PayoutCreatedEvent struct {
	shared.BaseDomainEvent
	PayeeID   uuid.UUID `json:"payee_id"`
	Period    string    `json:"period"`
	AmountDue string    `json:"amount_due"`
}

// NewPayoutCreatedEvent creates a new PayoutCreatedEvent
func NewPayoutCreatedEvent(p *Payout) *PayoutCreatedEvent {
	return &PayoutCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutCreated, "Payout", p.ID, p.TenantID),
		PayeeID:         p.PayeeID,
		Period:          p.Period,
		AmountDue:       p.AmountDue.StringFixed(2),
	}
}

// PayoutUpdatedEvent is emitted when a draft payout is recalculated
type PayoutUpdatedEvent struct {
	shared.BaseDomainEvent
	PayeeID   uuid.UUID `json:"payee_id"`
	Period    string    `json:"period"`
	AmountDue string    `json:"amount_due"`
}

// NewPayoutUpdatedEvent creates a new PayoutUpdatedEvent
func NewPayoutUpdatedEvent(p *Payout) *PayoutUpdatedEvent {
	return &PayoutUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutUpdated, "Payout", p.ID, p.TenantID),
		PayeeID:         p.PayeeID,
		Period:          p.Period,
		AmountDue:       p.AmountDue.StringFixed(2),
	}
}

// PayoutStatusChangedEvent is emitted on every workflow stage transition
type PayoutStatusChangedEvent struct {
	shared.BaseDomainEvent
	PayeeID       uuid.UUID     `json:"payee_id"`
	Period        string        `json:"period"`
	PreviousStage WorkflowStage `json:"previous_stage"`
	NewStage      WorkflowStage `json:"new_stage"`
	AmountDue     string        `json:"amount_due"`
}

// NewPayoutStatusChangedEvent creates a new PayoutStatusChangedEvent
func NewPayoutStatusChangedEvent(p *Payout, from, to WorkflowStage) *PayoutStatusChangedEvent {
	return &PayoutStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutStatusChanged, "Payout", p.ID, p.TenantID),
		PayeeID:         p.PayeeID,
		Period:          p.Period,
		PreviousStage:   from,
		NewStage:        to,
		AmountDue:       p.AmountDue.StringFixed(2),
	}
}

// QuarterlyReportCreatedEvent is emitted when a balance report is generated
type QuarterlyReportCreatedEvent struct {
	shared.BaseDomainEvent
	PayeeID uuid.UUID `json:"payee_id"`
	Year    int       `json:"year"`
	Quarter int       `json:"quarter"`
}

// NewQuarterlyReportCreatedEvent creates a new QuarterlyReportCreatedEvent
func NewQuarterlyReportCreatedEvent(r *QuarterlyBalanceReport) *QuarterlyReportCreatedEvent {
	return &QuarterlyReportCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuarterlyReportCreated, "QuarterlyBalanceReport", r.ID, r.TenantID),
		PayeeID:         r.PayeeID,
		Year:            r.Year,
		Quarter:         r.Quarter,
	}
}

// BatchCompletedEvent is emitted when a batch operation finishes
type BatchCompletedEvent struct {
	shared.BaseDomainEvent
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent
func NewBatchCompletedEvent(b *BatchOperation) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCompleted, "BatchOperation", b.ID, b.TenantID),
		Succeeded:       b.SucceededCount(),
		Failed:          b.FailedCount(),
	}
}

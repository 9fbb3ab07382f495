package royalty

import (
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeFeeProrated         = "royalty.fee_prorated"
	EventTypeStatementCalculated = "royalty.statement_calculated"
	EventTypeExpenseApproved     = "royalty.expense_approved"
)

// FeeProratedEvent is emitted after a fee is split across works
type FeeProratedEvent struct {
	shared.BaseDomainEvent
	Fee                  string      `json:"fee"`
	WorkIDs              []uuid.UUID `json:"work_ids"`
	UnallocatedRemainder string      `json:"unallocated_remainder,omitempty"`
}

// NewFeeProratedEvent creates a new FeeProratedEvent. The proration has no
// aggregate of its own; the event carries a fresh ID for correlation.
func NewFeeProratedEvent(tenantID uuid.UUID, result *FeeProrationResult) *FeeProratedEvent {
	workIDs := make([]uuid.UUID, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		workIDs = append(workIDs, a.WorkID)
	}
	evt := &FeeProratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeeProrated, "FeeProration", uuid.New(), tenantID),
		Fee:             result.Fee.String(),
		WorkIDs:         workIDs,
	}
	if !result.UnallocatedRemainder.IsZero() {
		evt.UnallocatedRemainder = result.UnallocatedRemainder.String()
	}
	return evt
}

// StatementCalculatedEvent is emitted after a payee statement is produced
type StatementCalculatedEvent struct {
	shared.BaseDomainEvent
	PayeeID           uuid.UUID         `json:"payee_id"`
	CalculationMethod CalculationMethod `json:"calculation_method"`
	AmountDue         string            `json:"amount_due"`
}

// NewStatementCalculatedEvent creates a new StatementCalculatedEvent
func NewStatementCalculatedEvent(tenantID uuid.UUID, statement *RoyaltyStatement) *StatementCalculatedEvent {
	return &StatementCalculatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStatementCalculated, "RoyaltyStatement", statement.PayeeID, tenantID),
		PayeeID:           statement.PayeeID,
		CalculationMethod: statement.CalculationMethod,
		AmountDue:         statement.AmountDue.String(),
	}
}

// ExpenseApprovedEvent is emitted when an expense becomes deductible
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	Description string `json:"description"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, "Expense", e.ID, e.TenantID),
		Description:     e.Description,
	}
}

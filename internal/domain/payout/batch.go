package payout

import (
	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// BatchStatus tracks the overall outcome of a batch operation
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusPartial   BatchStatus = "partial"
	BatchStatusFailed    BatchStatus = "failed"
)

// BatchResult is the per-payout outcome inside a batch. A failure on one
// payout never blocks the others.
type BatchResult struct {
	PayoutID  uuid.UUID `json:"payout_id"`
	Succeeded bool      `json:"succeeded"`
	Error     string    `json:"error,omitempty"`
}

// BatchOperation records a bulk stage transition across many payouts with
// independent per-target outcomes.
type BatchOperation struct {
	shared.TenantAggregateRoot
	TargetStage WorkflowStage `gorm:"type:varchar(20);not null" json:"target_stage"`
	Reason      string        `gorm:"type:varchar(500)" json:"reason,omitempty"`
	Status      BatchStatus   `gorm:"type:varchar(15);not null" json:"status"`
	Results     []BatchResult `gorm:"serializer:json" json:"results"`
}

// TableName returns the table name for GORM
func (BatchOperation) TableName() string {
	return "batch_operations"
}

// NewBatchOperation starts a batch targeting the given stage
func NewBatchOperation(tenantID uuid.UUID, targetStage WorkflowStage, reason string) (*BatchOperation, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "tenant_id", "tenant ID is required")
	}
	if !targetStage.IsValid() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "target_stage", "unknown workflow stage: "+string(targetStage))
	}
	return &BatchOperation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TargetStage:         targetStage,
		Reason:              reason,
		Status:              BatchStatusPending,
	}, nil
}

// RecordSuccess appends a successful outcome for one payout
func (b *BatchOperation) RecordSuccess(payoutID uuid.UUID) {
	b.Results = append(b.Results, BatchResult{PayoutID: payoutID, Succeeded: true})
}

// RecordFailure appends a failed outcome for one payout
func (b *BatchOperation) RecordFailure(payoutID uuid.UUID, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	b.Results = append(b.Results, BatchResult{PayoutID: payoutID, Error: msg})
}

// Finalize settles the overall status from the recorded outcomes and emits
// the completion event.
func (b *BatchOperation) Finalize() {
	succeeded := b.SucceededCount()
	failed := b.FailedCount()
	switch {
	case failed == 0:
		b.Status = BatchStatusCompleted
	case succeeded == 0:
		b.Status = BatchStatusFailed
	default:
		b.Status = BatchStatusPartial
	}
	b.IncrementVersion()
	b.AddDomainEvent(NewBatchCompletedEvent(b))
}

// SucceededCount returns the number of successful outcomes
func (b *BatchOperation) SucceededCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Succeeded {
			n++
		}
	}
	return n
}

// FailedCount returns the number of failed outcomes
func (b *BatchOperation) FailedCount() int {
	return len(b.Results) - b.SucceededCount()
}

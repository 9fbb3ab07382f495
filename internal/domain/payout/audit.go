package payout

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowAuditEntry is one row of the append-only workflow history. Entries
// are never mutated or deleted; they are the financial audit trail for every
// stage transition.
type WorkflowAuditEntry struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	PayoutID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"payout_id"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	FromStage WorkflowStage     `gorm:"type:varchar(20);not null" json:"from_stage"`
	ToStage   WorkflowStage     `gorm:"type:varchar(20);not null" json:"to_stage"`
	Reason    string            `gorm:"type:varchar(500)" json:"reason,omitempty"`
	Metadata  map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (WorkflowAuditEntry) TableName() string {
	return "workflow_audit_entries"
}

// newAuditEntry records a single transition
func newAuditEntry(p *Payout, from, to WorkflowStage, reason string, metadata map[string]string) WorkflowAuditEntry {
	return WorkflowAuditEntry{
		ID:        uuid.New(),
		PayoutID:  p.ID,
		TenantID:  p.TenantID,
		FromStage: from,
		ToStage:   to,
		Reason:    reason,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

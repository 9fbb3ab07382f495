package payout

import (
	"context"

	"github.com/google/uuid"
)

// PayoutFilter narrows payout listings
type PayoutFilter struct {
	PayeeID *uuid.UUID
	Period  *string
	Stage   *WorkflowStage
	Status  *Status
	Limit   int
	Offset  int
}

// PayoutRepository is the persistence contract for payouts
type PayoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payout, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payout, error)
	FindByPayeeAndPeriod(ctx context.Context, tenantID, payeeID uuid.UUID, period string) (*Payout, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutFilter) ([]Payout, error)
	Save(ctx context.Context, p *Payout) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutFilter) (int64, error)
}

// WorkflowAuditRepository stores the append-only transition history
type WorkflowAuditRepository interface {
	Append(ctx context.Context, entries []WorkflowAuditEntry) error
	ListForPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]WorkflowAuditEntry, error)
}

// QuarterlyReportRepository stores per-payee quarterly balance reports
type QuarterlyReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QuarterlyBalanceReport, error)
	FindForPayeePeriod(ctx context.Context, tenantID, payeeID uuid.UUID, year, quarter int) (*QuarterlyBalanceReport, error)
	ExistsForPayeePeriod(ctx context.Context, tenantID, payeeID uuid.UUID, year, quarter int) (bool, error)
	FindLatestForPayee(ctx context.Context, tenantID, payeeID uuid.UUID) (*QuarterlyBalanceReport, error)
	Save(ctx context.Context, r *QuarterlyBalanceReport) error
}

// BatchOperationRepository stores batch operation records
type BatchOperationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BatchOperation, error)
	Save(ctx context.Context, b *BatchOperation) error
}

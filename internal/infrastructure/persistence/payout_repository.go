package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/payout"
)

// GormPayoutRepository implements payout.PayoutRepository using GORM. The
// audit trail is persisted separately through GormWorkflowAuditRepository, so
// saves omit the association to keep the trail append-only.
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout by ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	var p payout.Payout
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &p, nil
}

// FindByIDForTenant finds a payout by ID for a specific tenant
func (r *GormPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payout.Payout, error) {
	var p payout.Payout
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &p, nil
}

// FindByPayeeAndPeriod finds the payout for a payee and period, if any
func (r *GormPayoutRepository) FindByPayeeAndPeriod(ctx context.Context, tenantID, payeeID uuid.UUID, period string) (*payout.Payout, error) {
	var p payout.Payout
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payee_id = ? AND period = ?", tenantID, payeeID, period).
		First(&p).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &p, nil
}

// FindAllForTenant lists payouts for a tenant with filtering
func (r *GormPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payout.PayoutFilter) ([]payout.Payout, error) {
	var payouts []payout.Payout
	query := r.db.WithContext(ctx).Model(&payout.Payout{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return payouts, nil
}

// Save creates or updates a payout without touching the audit trail
func (r *GormPayoutRepository) Save(ctx context.Context, p *payout.Payout) error {
	return wrapDBError(r.db.WithContext(ctx).Omit("AuditTrail").Save(p).Error)
}

// CountForTenant counts payouts for a tenant
func (r *GormPayoutRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payout.PayoutFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&payout.Payout{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return count, nil
}

func (r *GormPayoutRepository) applyFilter(query *gorm.DB, filter payout.PayoutFilter) *gorm.DB {
	if filter.PayeeID != nil {
		query = query.Where("payee_id = ?", *filter.PayeeID)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

var _ payout.PayoutRepository = (*GormPayoutRepository)(nil)

// GormWorkflowAuditRepository implements payout.WorkflowAuditRepository using
// GORM. Entries are append-only.
type GormWorkflowAuditRepository struct {
	db *gorm.DB
}

// NewGormWorkflowAuditRepository creates a new GormWorkflowAuditRepository
func NewGormWorkflowAuditRepository(db *gorm.DB) *GormWorkflowAuditRepository {
	return &GormWorkflowAuditRepository{db: db}
}

// Append inserts new audit entries
func (r *GormWorkflowAuditRepository) Append(ctx context.Context, entries []payout.WorkflowAuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return wrapDBError(r.db.WithContext(ctx).Create(&entries).Error)
}

// ListForPayout lists a payout's transition history oldest first
func (r *GormWorkflowAuditRepository) ListForPayout(ctx context.Context, tenantID, payoutID uuid.UUID) ([]payout.WorkflowAuditEntry, error) {
	var entries []payout.WorkflowAuditEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payout_id = ?", tenantID, payoutID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return entries, nil
}

var _ payout.WorkflowAuditRepository = (*GormWorkflowAuditRepository)(nil)

package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/payout"
)

// GormQuarterlyReportRepository implements payout.QuarterlyReportRepository
// using GORM. The payee/year/quarter unique index is the last line of defense
// against duplicate reports from redelivered events.
type GormQuarterlyReportRepository struct {
	db *gorm.DB
}

// NewGormQuarterlyReportRepository creates a new GormQuarterlyReportRepository
func NewGormQuarterlyReportRepository(db *gorm.DB) *GormQuarterlyReportRepository {
	return &GormQuarterlyReportRepository{db: db}
}

// FindByID finds a report by ID
func (r *GormQuarterlyReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.QuarterlyBalanceReport, error) {
	var report payout.QuarterlyBalanceReport
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &report, nil
}

// FindForPayeePeriod finds the report for a payee and quarter
func (r *GormQuarterlyReportRepository) FindForPayeePeriod(ctx context.Context, tenantID, payeeID uuid.UUID, year, quarter int) (*payout.QuarterlyBalanceReport, error) {
	var report payout.QuarterlyBalanceReport
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payee_id = ? AND year = ? AND quarter = ?", tenantID, payeeID, year, quarter).
		First(&report).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &report, nil
}

// ExistsForPayeePeriod reports whether a report already covers the quarter
func (r *GormQuarterlyReportRepository) ExistsForPayeePeriod(ctx context.Context, tenantID, payeeID uuid.UUID, year, quarter int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&payout.QuarterlyBalanceReport{}).
		Where("tenant_id = ? AND payee_id = ? AND year = ? AND quarter = ?", tenantID, payeeID, year, quarter).
		Count(&count).Error
	if err != nil {
		return false, wrapDBError(err)
	}
	return count > 0, nil
}

// FindLatestForPayee finds the payee's most recent report by quarter
func (r *GormQuarterlyReportRepository) FindLatestForPayee(ctx context.Context, tenantID, payeeID uuid.UUID) (*payout.QuarterlyBalanceReport, error) {
	var report payout.QuarterlyBalanceReport
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payee_id = ?", tenantID, payeeID).
		Order("year DESC, quarter DESC").
		First(&report).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &report, nil
}

// Save inserts a report. A unique-index violation surfaces as ALREADY_EXISTS
// so the caller can treat concurrent duplicates as a no-op.
func (r *GormQuarterlyReportRepository) Save(ctx context.Context, report *payout.QuarterlyBalanceReport) error {
	return wrapDBError(r.db.WithContext(ctx).Create(report).Error)
}

var _ payout.QuarterlyReportRepository = (*GormQuarterlyReportRepository)(nil)

// GormBatchOperationRepository implements payout.BatchOperationRepository
type GormBatchOperationRepository struct {
	db *gorm.DB
}

// NewGormBatchOperationRepository creates a new GormBatchOperationRepository
func NewGormBatchOperationRepository(db *gorm.DB) *GormBatchOperationRepository {
	return &GormBatchOperationRepository{db: db}
}

// FindByID finds a batch operation by ID
func (r *GormBatchOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*payout.BatchOperation, error) {
	var batch payout.BatchOperation
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &batch, nil
}

// Save creates or updates a batch operation
func (r *GormBatchOperationRepository) Save(ctx context.Context, batch *payout.BatchOperation) error {
	return wrapDBError(r.db.WithContext(ctx).Save(batch).Error)
}

var _ payout.BatchOperationRepository = (*GormBatchOperationRepository)(nil)

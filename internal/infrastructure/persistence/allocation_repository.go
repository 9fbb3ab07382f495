package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/works"
)

const allocationBatchSize = 500

// GormAllocationRepository implements royalty.RoyaltyAllocationRepository
// using GORM. Rows are append-only; there is no update or delete path.
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByID finds an allocation by ID
func (r *GormAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*royalty.RoyaltyAllocation, error) {
	var allocation royalty.RoyaltyAllocation
	if err := r.db.WithContext(ctx).First(&allocation, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &allocation, nil
}

// FindAllForTenant lists allocations for a tenant with filtering
func (r *GormAllocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter royalty.AllocationFilter) ([]royalty.RoyaltyAllocation, error) {
	var allocations []royalty.RoyaltyAllocation
	query := r.db.WithContext(ctx).Model(&royalty.RoyaltyAllocation{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Order("statement_date ASC, created_at ASC").Find(&allocations).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return allocations, nil
}

// SumGrossForPayees sums gross royalty amounts over the window for the given
// payees. The window end is pushed to end-of-day so callers can pass calendar
// dates.
func (r *GormAllocationRepository) SumGrossForPayees(ctx context.Context, tenantID uuid.UUID, payeeIDs []uuid.UUID, window royalty.DateRange) (decimal.Decimal, error) {
	if len(payeeIDs) == 0 {
		return decimal.Zero, nil
	}
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&royalty.RoyaltyAllocation{}).
		Select("COALESCE(SUM(gross_royalty_amount), 0)").
		Where("tenant_id = ? AND payee_id IN ?", tenantID, payeeIDs).
		Where("statement_date >= ? AND statement_date <= ?", window.Start, window.EndOfDay()).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, wrapDBError(err)
	}
	return total, nil
}

// Save inserts a new allocation row
func (r *GormAllocationRepository) Save(ctx context.Context, allocation *royalty.RoyaltyAllocation) error {
	return wrapDBError(r.db.WithContext(ctx).Create(allocation).Error)
}

// SaveBatch inserts a batch of allocation rows from a statement import
func (r *GormAllocationRepository) SaveBatch(ctx context.Context, allocations []royalty.RoyaltyAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return wrapDBError(r.db.WithContext(ctx).CreateInBatches(allocations, allocationBatchSize).Error)
}

// CountForTenant counts allocations for a tenant
func (r *GormAllocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter royalty.AllocationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&royalty.RoyaltyAllocation{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return count, nil
}

func (r *GormAllocationRepository) applyFilter(query *gorm.DB, filter royalty.AllocationFilter) *gorm.DB {
	if len(filter.PayeeIDs) > 0 {
		query = query.Where("payee_id IN ?", filter.PayeeIDs)
	}
	if filter.WorkID != nil {
		query = query.Where("work_id = ?", *filter.WorkID)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.ControlledOnly {
		query = query.Where("controlled_status = ?", works.StatusControlled)
	}
	if filter.Range != nil {
		query = query.Where("statement_date >= ? AND statement_date <= ?",
			filter.Range.Start, filter.Range.EndOfDay())
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	return query
}

var _ royalty.RoyaltyAllocationRepository = (*GormAllocationRepository)(nil)

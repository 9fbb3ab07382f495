package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

// GormExpenseRepository implements royalty.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*royalty.Expense, error) {
	var expense royalty.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &expense, nil
}

// FindAllForTenant lists expenses for a tenant with filtering
func (r *GormExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter royalty.ExpenseFilter) ([]royalty.Expense, error) {
	var expenses []royalty.Expense
	query := r.db.WithContext(ctx).Model(&royalty.Expense{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Order("created_at ASC").Find(&expenses).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return expenses, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *royalty.Expense) error {
	return wrapDBError(r.db.WithContext(ctx).Save(expense).Error)
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&royalty.Expense{})
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter royalty.ExpenseFilter) *gorm.DB {
	if len(filter.PayeeIDs) > 0 {
		query = query.Where("payee_id IN ?", filter.PayeeIDs)
	}
	if filter.PayoutID != nil {
		query = query.Where("payout_id = ?", *filter.PayoutID)
	}
	if filter.WorkID != nil {
		query = query.Where("work_id = ?", *filter.WorkID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RecoupableOnly {
		query = query.Where("flag_recoupable = ?", true)
	}
	if filter.CommissionOnly {
		query = query.Where("flag_commission_fee = ?", true)
	}
	if filter.Range != nil {
		// incurred_on is a yyyy-mm-dd string, so lexical order matches date
		// order. Undated expenses count toward every window.
		query = query.Where(
			"(incurred_on IS NULL OR incurred_on = '' OR (incurred_on >= ? AND incurred_on <= ?))",
			filter.Range.Start.Format("2006-01-02"),
			filter.Range.End.Format("2006-01-02"))
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	return query
}

var _ royalty.ExpenseRepository = (*GormExpenseRepository)(nil)

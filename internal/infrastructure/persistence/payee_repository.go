package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/royalty"
)

// GormPayeeRepository implements royalty.PayeeRepository using GORM
type GormPayeeRepository struct {
	db *gorm.DB
}

// NewGormPayeeRepository creates a new GormPayeeRepository
func NewGormPayeeRepository(db *gorm.DB) *GormPayeeRepository {
	return &GormPayeeRepository{db: db}
}

// FindByID finds a payee by ID
func (r *GormPayeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*royalty.Payee, error) {
	var payee royalty.Payee
	if err := r.db.WithContext(ctx).First(&payee, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &payee, nil
}

// FindByIDForTenant finds a payee by ID for a specific tenant
func (r *GormPayeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Payee, error) {
	var payee royalty.Payee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payee).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &payee, nil
}

// FindByContactName finds every payee row behind a contact name
func (r *GormPayeeRepository) FindByContactName(ctx context.Context, tenantID uuid.UUID, contactName string) ([]royalty.Payee, error) {
	var payees []royalty.Payee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contact_name = ?", tenantID, contactName).
		Order("created_at ASC").
		Find(&payees).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return payees, nil
}

// Save creates or updates a payee
func (r *GormPayeeRepository) Save(ctx context.Context, payee *royalty.Payee) error {
	return wrapDBError(r.db.WithContext(ctx).Save(payee).Error)
}

var _ royalty.PayeeRepository = (*GormPayeeRepository)(nil)

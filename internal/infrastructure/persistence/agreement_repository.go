package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

// GormAgreementRepository implements royalty.AgreementRepository using GORM
type GormAgreementRepository struct {
	db *gorm.DB
}

// NewGormAgreementRepository creates a new GormAgreementRepository
func NewGormAgreementRepository(db *gorm.DB) *GormAgreementRepository {
	return &GormAgreementRepository{db: db}
}

// FindByID finds an agreement by ID
func (r *GormAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*royalty.Agreement, error) {
	var agreement royalty.Agreement
	if err := r.db.WithContext(ctx).First(&agreement, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &agreement, nil
}

// FindByIDForTenant finds an agreement by ID for a specific tenant
func (r *GormAgreementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Agreement, error) {
	var agreement royalty.Agreement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&agreement).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &agreement, nil
}

// Save creates or updates an agreement
func (r *GormAgreementRepository) Save(ctx context.Context, agreement *royalty.Agreement) error {
	err := r.db.WithContext(ctx).Save(agreement).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewFieldError(shared.CodeAlreadyExists, "agreement_number",
			"An agreement with this number already exists")
	}
	return wrapDBError(err)
}

var _ royalty.AgreementRepository = (*GormAgreementRepository)(nil)

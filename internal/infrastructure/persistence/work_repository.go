package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/works"
)

// GormWorkRepository implements works.WorkRepository using GORM
type GormWorkRepository struct {
	db *gorm.DB
}

// NewGormWorkRepository creates a new GormWorkRepository
func NewGormWorkRepository(db *gorm.DB) *GormWorkRepository {
	return &GormWorkRepository{db: db}
}

// FindByID finds a work with its shares preloaded
func (r *GormWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*works.Work, error) {
	var work works.Work
	if err := r.db.WithContext(ctx).
		Preload("WriterShares").
		Preload("PublisherShares").
		Where("deleted_at IS NULL").
		First(&work, "id = ?", id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &work, nil
}

// FindByIDForTenant finds a work by ID for a specific tenant
func (r *GormWorkRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*works.Work, error) {
	var work works.Work
	if err := r.db.WithContext(ctx).
		Preload("WriterShares").
		Preload("PublisherShares").
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		First(&work).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &work, nil
}

// FindByIDs finds several works with shares preloaded, preserving input order
func (r *GormWorkRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]works.Work, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []works.Work
	if err := r.db.WithContext(ctx).
		Preload("WriterShares").
		Preload("PublisherShares").
		Where("tenant_id = ? AND id IN ? AND deleted_at IS NULL", tenantID, ids).
		Find(&found).Error; err != nil {
		return nil, wrapDBError(err)
	}

	byID := make(map[uuid.UUID]works.Work, len(found))
	for i := range found {
		byID[found[i].ID] = found[i]
	}
	ordered := make([]works.Work, 0, len(found))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}
	return ordered, nil
}

// FindAllForTenant lists works for a tenant with filtering
func (r *GormWorkRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter works.WorkFilter) ([]works.Work, error) {
	var result []works.Work
	query := r.db.WithContext(ctx).Model(&works.Work{}).
		Preload("WriterShares").
		Preload("PublisherShares").
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&result).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return result, nil
}

// Save creates or updates a work and its shares
func (r *GormWorkRepository) Save(ctx context.Context, work *works.Work) error {
	return wrapDBError(r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(work).Error)
}

// Delete soft deletes a work
func (r *GormWorkRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&works.Work{}).
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, id).
		Update("deleted_at", time.Now().Unix())
	if result.Error != nil {
		return wrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts works for a tenant
func (r *GormWorkRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter works.WorkFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&works.Work{}).
		Where("tenant_id = ? AND deleted_at IS NULL", tenantID)
	query = r.applyFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return count, nil
}

func (r *GormWorkRepository) applyFilter(query *gorm.DB, filter works.WorkFilter) *gorm.DB {
	if filter.Title != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Title+"%")
	}
	if filter.WriterID != nil {
		query = query.Where(
			"id IN (SELECT work_id FROM writer_shares WHERE writer_id = ?)",
			*filter.WriterID,
		)
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 1 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	return query
}

var _ works.WorkRepository = (*GormWorkRepository)(nil)

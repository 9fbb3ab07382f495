package works

import (
	"context"

	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// WorkFilter defines filtering options for work queries
type WorkFilter struct {
	shared.Filter
	Title    string
	WriterID *uuid.UUID
}

// WorkRepository defines the interface for work persistence.
// Works referenced by royalty allocations are never hard deleted; Delete is a
// soft delete so historical allocations stay resolvable for audit.
type WorkRepository interface {
	// FindByID finds a work with its shares preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Work, error)

	// FindByIDForTenant finds a work by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Work, error)

	// FindByIDs finds several works with shares preloaded, preserving input order
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Work, error)

	// FindAllForTenant lists works for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter WorkFilter) ([]Work, error)

	// Save creates or updates a work and its shares
	Save(ctx context.Context, work *Work) error

	// Delete soft deletes a work
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts works for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter WorkFilter) (int64, error)
}

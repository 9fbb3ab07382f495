package royalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// AllocationFilter defines filtering options for royalty allocation queries
type AllocationFilter struct {
	shared.Filter
	PayeeIDs       []uuid.UUID
	WorkID         *uuid.UUID
	Period         *string
	ControlledOnly bool
	Range          *DateRange
}

// RoyaltyAllocationRepository defines the interface for royalty line persistence.
// Rows are append-only; there is no update path.
type RoyaltyAllocationRepository interface {
	// FindByID finds an allocation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RoyaltyAllocation, error)

	// FindAllForTenant lists allocations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AllocationFilter) ([]RoyaltyAllocation, error)

	// SumGrossForPayees sums gross royalty amounts over the window for the
	// given payees. The window end is end-of-day inclusive.
	SumGrossForPayees(ctx context.Context, tenantID uuid.UUID, payeeIDs []uuid.UUID, window DateRange) (decimal.Decimal, error)

	// Save inserts a new allocation row
	Save(ctx context.Context, allocation *RoyaltyAllocation) error

	// SaveBatch inserts a batch of allocation rows from a statement import
	SaveBatch(ctx context.Context, allocations []RoyaltyAllocation) error

	// CountForTenant counts allocations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AllocationFilter) (int64, error)
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	PayeeIDs       []uuid.UUID
	PayoutID       *uuid.UUID
	WorkID         *uuid.UUID
	Status         *ExpenseStatus
	RecoupableOnly bool
	CommissionOnly bool
	Range          *DateRange
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindAllForTenant lists expenses for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]Expense, error)

	// Save creates or updates an expense
	Save(ctx context.Context, expense *Expense) error

	// Delete removes an expense
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AgreementRepository defines the interface for agreement persistence
type AgreementRepository interface {
	// FindByID finds an agreement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Agreement, error)

	// FindByIDForTenant finds an agreement by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Agreement, error)

	// Save creates or updates an agreement
	Save(ctx context.Context, agreement *Agreement) error
}

// PayeeRepository defines the interface for payee persistence
type PayeeRepository interface {
	// FindByID finds a payee by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payee, error)

	// FindByIDForTenant finds a payee by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payee, error)

	// FindByContactName finds every payee record behind a contact name.
	// A single contact may resolve to multiple payee rows; aggregation sums
	// across all of them.
	FindByContactName(ctx context.Context, tenantID uuid.UUID, contactName string) ([]Payee, error)

	// Save creates or updates a payee
	Save(ctx context.Context, payee *Payee) error
}

package royalty

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// OwnershipLedger resolves the payee ownership hierarchy:
// Payee -> Writer -> Original Publisher -> Agreement. Resolution failures are
// reported as RESOLUTION_FAILURE so callers can fall back instead of aborting.
type OwnershipLedger struct {
	payeeRepo     PayeeRepository
	agreementRepo AgreementRepository
}

// NewOwnershipLedger creates a new OwnershipLedger
func NewOwnershipLedger(payeeRepo PayeeRepository, agreementRepo AgreementRepository) *OwnershipLedger {
	return &OwnershipLedger{
		payeeRepo:     payeeRepo,
		agreementRepo: agreementRepo,
	}
}

// ResolvePayee loads a payee by ID within the tenant scope
func (l *OwnershipLedger) ResolvePayee(ctx context.Context, tenantID, payeeID uuid.UUID) (*Payee, error) {
	payee, err := l.payeeRepo.FindByIDForTenant(ctx, tenantID, payeeID)
	if err != nil {
		return nil, shared.NewFieldError(shared.CodeResolutionFailure, "payee_id",
			fmt.Sprintf("Payee %s could not be resolved: %v", payeeID, err))
	}
	return payee, nil
}

// ResolvePayeeGroup returns every payee row behind the same contact name as
// the given payee, the payee itself included. Royalty aggregation sums gross
// amounts across the whole group.
func (l *OwnershipLedger) ResolvePayeeGroup(ctx context.Context, payee *Payee) ([]Payee, error) {
	group, err := l.payeeRepo.FindByContactName(ctx, payee.TenantID, payee.ContactName)
	if err != nil {
		return nil, shared.NewFieldError(shared.CodeResolutionFailure, "contact_name",
			fmt.Sprintf("Payee group for %q could not be resolved: %v", payee.ContactName, err))
	}
	if len(group) == 0 {
		group = []Payee{*payee}
	}
	return group, nil
}

// ResolveAgreement walks from a payee to its governing agreement. Returns a
// RESOLUTION_FAILURE error when the payee has no agreement, the agreement row
// is gone, or the agreement is no longer active.
func (l *OwnershipLedger) ResolveAgreement(ctx context.Context, payee *Payee) (*Agreement, error) {
	if !payee.HasAgreement() {
		return nil, shared.NewFieldError(shared.CodeResolutionFailure, "agreement_id",
			fmt.Sprintf("Payee %s has no linked agreement", payee.ID))
	}
	return l.ResolveAgreementByID(ctx, payee.TenantID, *payee.AgreementID)
}

// ResolveAgreementByID loads an agreement directly, applying the same
// active-status check as ResolveAgreement.
func (l *OwnershipLedger) ResolveAgreementByID(ctx context.Context, tenantID, agreementID uuid.UUID) (*Agreement, error) {
	agreement, err := l.agreementRepo.FindByIDForTenant(ctx, tenantID, agreementID)
	if err != nil {
		return nil, shared.NewFieldError(shared.CodeResolutionFailure, "agreement_id",
			fmt.Sprintf("Agreement %s could not be resolved: %v", agreementID, err))
	}
	if !agreement.IsActive() {
		return nil, shared.NewFieldError(shared.CodeResolutionFailure, "agreement_id",
			fmt.Sprintf("Agreement %s is not active", agreementID))
	}
	return agreement, nil
}

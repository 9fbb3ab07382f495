package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

// AgreementStatus is the lifecycle state of a publishing agreement
type AgreementStatus string

const (
	AgreementStatusActive     AgreementStatus = "ACTIVE"
	AgreementStatusTerminated AgreementStatus = "TERMINATED"
)

// Agreement is a publishing contract between a publisher and a payee's
// writer. It carries the contractual commission rate and the outstanding
// advance balance recouped from payouts.
type Agreement struct {
	shared.TenantAggregateRoot
	AgreementNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_agreement_tenant_number,priority:2" json:"agreement_number"`
	PublisherID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"publisher_id"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"commission_percentage"`
	AdvanceAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"advance_amount"`
	Status               AgreementStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	EffectiveDate        time.Time       `gorm:"not null" json:"effective_date"`
	TerminatedAt         *time.Time      `json:"terminated_at,omitempty"`
}

// TableName returns the table name for GORM
func (Agreement) TableName() string {
	return "agreements"
}

// NewAgreement creates a new agreement
func NewAgreement(
	tenantID uuid.UUID,
	agreementNumber string,
	publisherID uuid.UUID,
	commission valueobject.Percentage,
	advance valueobject.Money,
	effectiveDate time.Time,
) (*Agreement, error) {
	if agreementNumber == "" {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "agreement_number", "Agreement number cannot be empty")
	}
	if publisherID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "publisher_id", "Publisher ID cannot be empty")
	}
	if advance.IsNegative() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "advance_amount", "Advance amount cannot be negative")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "effective_date", "Effective date is required")
	}

	return &Agreement{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		AgreementNumber:      agreementNumber,
		PublisherID:          publisherID,
		CommissionPercentage: commission.Value(),
		AdvanceAmount:        advance.Amount(),
		Status:               AgreementStatusActive,
		EffectiveDate:        effectiveDate,
	}, nil
}

// IsActive returns true while the agreement is in force
func (a *Agreement) IsActive() bool {
	return a.Status == AgreementStatusActive
}

// Terminate ends the agreement
func (a *Agreement) Terminate() error {
	if a.Status == AgreementStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Agreement is already terminated")
	}
	now := time.Now()
	a.Status = AgreementStatusTerminated
	a.TerminatedAt = &now
	a.IncrementVersion()
	return nil
}

// GetAdvanceMoney returns the advance balance as Money
func (a *Agreement) GetAdvanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.AdvanceAmount)
}

// RecordRecoupment reduces the outstanding advance by the recouped amount
func (a *Agreement) RecordRecoupment(amount valueobject.Money) error {
	if amount.IsNegative() {
		return shared.NewFieldError(shared.CodeInvalidInput, "amount", "Recoupment amount cannot be negative")
	}
	if amount.Amount().GreaterThan(a.AdvanceAmount) {
		return shared.NewFieldError(shared.CodeInvalidInput, "amount", "Recoupment cannot exceed the outstanding advance")
	}
	a.AdvanceAmount = a.AdvanceAmount.Sub(amount.Amount())
	a.IncrementVersion()
	return nil
}

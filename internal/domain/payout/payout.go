package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

// Payout is the aggregate root for a single payee's payout in one period. It
// snapshots the statement figures at creation time and owns the workflow
// stage machine; every stage change goes through Transition so the audit
// trail stays complete.
type Payout struct {
	shared.TenantAggregateRoot
	PayeeID             uuid.UUID            `gorm:"type:uuid;not null;index" json:"payee_id"`
	AgreementID         *uuid.UUID           `gorm:"type:uuid;index" json:"agreement_id,omitempty"`
	Period              string               `gorm:"type:varchar(10);not null;index" json:"period"`
	GrossRoyalties      decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"gross_royalties"`
	CommissionRate      decimal.Decimal      `gorm:"type:decimal(7,2);not null" json:"commission_rate"`
	CommissionDeduction decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"commission_deduction"`
	TotalExpenses       decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"total_expenses"`
	NetRoyalties        decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"net_royalties"`
	NetPayable          decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"net_payable"`
	AdvanceRecoupment   decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"advance_recoupment"`
	AmountDue           decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"amount_due"`
	Currency            string               `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	CalculationMethod   string               `gorm:"type:varchar(30);not null" json:"calculation_method"`
	Stage               WorkflowStage        `gorm:"type:varchar(20);not null;index" json:"stage"`
	Status              Status               `gorm:"type:varchar(10);not null;index" json:"status"`
	PaidAt              *time.Time           `json:"paid_at,omitempty"`
	AuditTrail          []WorkflowAuditEntry `gorm:"foreignKey:PayoutID" json:"audit_trail,omitempty"`
}

// TableName returns the table name for GORM
func (Payout) TableName() string {
	return "payouts"
}

// NewPayoutFromStatement creates a draft payout snapshotting a calculated
// statement. The period must parse as a quarter label.
func NewPayoutFromStatement(tenantID uuid.UUID, period string, statement *royalty.RoyaltyStatement) (*Payout, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "tenant_id", "tenant ID is required")
	}
	if statement == nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "statement", "statement is required")
	}
	if _, err := royalty.ParseQuarterPeriod(period); err != nil {
		return nil, err
	}

	p := &Payout{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayeeID:             statement.PayeeID,
		AgreementID:         statement.AgreementID,
		Period:              period,
		GrossRoyalties:      statement.GrossRoyalties.Amount(),
		CommissionRate:      statement.CommissionRate,
		CommissionDeduction: statement.CommissionDeduction.Amount(),
		TotalExpenses:       statement.TotalExpenses.Amount(),
		NetRoyalties:        statement.NetRoyalties.Amount(),
		NetPayable:          statement.NetPayable.Amount(),
		AdvanceRecoupment:   statement.AdvanceRecoupment.Amount(),
		AmountDue:           statement.AmountDue.Amount(),
		Currency:            string(statement.GrossRoyalties.Currency()),
		CalculationMethod:   string(statement.CalculationMethod),
		Stage:               StageDraft,
		Status:              StatusPending,
	}
	p.AddDomainEvent(NewPayoutCreatedEvent(p))
	return p, nil
}

// Transition moves the payout to a new workflow stage. Illegal edges return
// an INVALID_TRANSITION error and leave the payout untouched, including the
// audit trail. Legal transitions append an audit entry, resync the simplified
// status, and emit a PayoutStatusChanged event.
func (p *Payout) Transition(to WorkflowStage, reason string, metadata map[string]string) error {
	if !to.IsValid() {
		return shared.NewFieldError(shared.CodeInvalidInput, "stage", "unknown workflow stage: "+string(to))
	}
	if !p.Stage.CanTransitionTo(to) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			"cannot transition payout from "+string(p.Stage)+" to "+string(to))
	}

	from := p.Stage
	p.Stage = to
	p.Status = StatusForStage(to)
	if to == StagePaid {
		now := time.Now()
		p.PaidAt = &now
	}
	p.AuditTrail = append(p.AuditTrail, newAuditEntry(p, from, to, reason, metadata))
	p.IncrementVersion()
	p.AddDomainEvent(NewPayoutStatusChangedEvent(p, from, to))
	return nil
}

// UpdateFromStatement replaces the snapshot figures with a recalculated
// statement. Only draft payouts may be recalculated.
func (p *Payout) UpdateFromStatement(statement *royalty.RoyaltyStatement) error {
	if p.Stage != StageDraft {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			"only draft payouts can be recalculated, current stage is "+string(p.Stage))
	}
	if statement == nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "statement", "statement is required")
	}

	p.AgreementID = statement.AgreementID
	p.GrossRoyalties = statement.GrossRoyalties.Amount()
	p.CommissionRate = statement.CommissionRate
	p.CommissionDeduction = statement.CommissionDeduction.Amount()
	p.TotalExpenses = statement.TotalExpenses.Amount()
	p.NetRoyalties = statement.NetRoyalties.Amount()
	p.NetPayable = statement.NetPayable.Amount()
	p.AdvanceRecoupment = statement.AdvanceRecoupment.Amount()
	p.AmountDue = statement.AmountDue.Amount()
	p.CalculationMethod = string(statement.CalculationMethod)
	p.IncrementVersion()
	p.AddDomainEvent(NewPayoutUpdatedEvent(p))
	return nil
}

// IsPaid returns true once the payout reached the paid stage
func (p *Payout) IsPaid() bool {
	return p.Stage == StagePaid
}

// GetAmountDueMoney returns the amount due as a money value
func (p *Payout) GetAmountDueMoney() valueobject.Money {
	m, err := valueobject.NewMoney(p.AmountDue, valueobject.Currency(p.Currency))
	if err != nil {
		return valueobject.NewMoneyUSD(p.AmountDue)
	}
	return m
}

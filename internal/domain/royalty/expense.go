package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

// ExpenseStatus is the approval state of an expense. Only approved expenses
// count toward payout math.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// ExpenseFlags is the normalized flag structure populated at ingestion time.
// Flags are non-exclusive. Legacy dual-spelling JSON lookups from imported
// statements are resolved into this struct before an Expense is created.
type ExpenseFlags struct {
	Recoupable    bool `gorm:"not null;default:false" json:"recoupable"`
	CommissionFee bool `gorm:"not null;default:false" json:"commission_fee"`
	FinderFee     bool `gorm:"not null;default:false" json:"finder_fee"`
}

// Expense is a cost tied optionally to a payout, payee, or work. It is either
// a flat amount or a percentage of gross royalties, never both.
type Expense struct {
	shared.TenantAggregateRoot
	Description    string           `gorm:"type:varchar(500);not null" json:"description"`
	PayeeID        *uuid.UUID       `gorm:"type:uuid;index" json:"payee_id,omitempty"`
	PayoutID       *uuid.UUID       `gorm:"type:uuid;index" json:"payout_id,omitempty"`
	WorkID         *uuid.UUID       `gorm:"type:uuid;index" json:"work_id,omitempty"`
	Amount         *decimal.Decimal `gorm:"type:decimal(18,4)" json:"amount,omitempty"`
	PercentageRate *decimal.Decimal `gorm:"type:decimal(7,2)" json:"percentage_rate,omitempty"`
	Flags          ExpenseFlags     `gorm:"embedded;embeddedPrefix:flag_" json:"flags"`
	Status         ExpenseStatus    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	IncurredOn     string           `gorm:"type:varchar(10)" json:"incurred_on,omitempty"` // yyyy-mm-dd
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewFlatExpense creates an expense with a fixed amount
func NewFlatExpense(tenantID uuid.UUID, description string, amount valueobject.Money, flags ExpenseFlags) (*Expense, error) {
	if description == "" {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "description", "Expense description cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "amount", "Expense amount cannot be negative")
	}
	amt := amount.Amount()
	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		Amount:              &amt,
		Flags:               flags,
		Status:              ExpenseStatusPending,
	}, nil
}

// NewRateExpense creates an expense computed as a percentage of gross royalties
func NewRateExpense(tenantID uuid.UUID, description string, rate valueobject.Percentage, flags ExpenseFlags) (*Expense, error) {
	if description == "" {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "description", "Expense description cannot be empty")
	}
	r := rate.Value()
	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		PercentageRate:      &r,
		Flags:               flags,
		Status:              ExpenseStatusPending,
	}, nil
}

// SetIncurredOn dates the expense. Dates are stored as yyyy-mm-dd strings so
// range filters can compare them lexically; an undated expense counts toward
// every window.
func (e *Expense) SetIncurredOn(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return shared.NewFieldError(shared.CodeInvalidInput, "incurred_on",
			"Incurred date must be in yyyy-mm-dd format")
	}
	e.IncurredOn = date
	e.IncrementVersion()
	return nil
}

// AttachToPayee ties the expense to a payee
func (e *Expense) AttachToPayee(payeeID uuid.UUID) {
	e.PayeeID = &payeeID
	e.IncrementVersion()
}

// AttachToPayout ties the expense to a payout
func (e *Expense) AttachToPayout(payoutID uuid.UUID) {
	e.PayoutID = &payoutID
	e.IncrementVersion()
}

// AttachToWork ties the expense to a work
func (e *Expense) AttachToWork(workID uuid.UUID) {
	e.WorkID = &workID
	e.IncrementVersion()
}

// Approve marks the expense as approved
func (e *Expense) Approve() error {
	if e.Status == ExpenseStatusApproved {
		return nil
	}
	if e.Status == ExpenseStatusRejected {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Rejected expenses cannot be approved")
	}
	e.Status = ExpenseStatusApproved
	e.IncrementVersion()
	e.AddDomainEvent(NewExpenseApprovedEvent(e))
	return nil
}

// Reject marks the expense as rejected
func (e *Expense) Reject() error {
	if e.Status == ExpenseStatusApproved {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Approved expenses cannot be rejected")
	}
	e.Status = ExpenseStatusRejected
	e.IncrementVersion()
	return nil
}

// IsApproved returns true when the expense counts toward payout math
func (e *Expense) IsApproved() bool {
	return e.Status == ExpenseStatusApproved
}

// IsFlat returns true for fixed-amount expenses
func (e *Expense) IsFlat() bool {
	return e.Amount != nil
}

// EffectiveAmount resolves the expense against the given gross royalties:
// the flat amount when set, otherwise rate x gross / 100.
func (e *Expense) EffectiveAmount(gross valueobject.Money) valueobject.Money {
	if e.Amount != nil {
		return valueobject.NewMoneyUSD(*e.Amount)
	}
	if e.PercentageRate != nil {
		return gross.CalculatePercentage(*e.PercentageRate)
	}
	return valueobject.ZeroUSD()
}

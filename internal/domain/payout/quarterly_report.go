package payout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/royalty"
	"github.com/royaltyops/backend/internal/domain/shared"
)

// QuarterlyBalanceReport is the per-payee running balance for one quarter.
// At most one report exists per payee, year, and quarter; the side-effect
// pipeline checks for an existing report before creating one so a replayed
// paid event cannot produce duplicates.
type QuarterlyBalanceReport struct {
	shared.TenantAggregateRoot
	PayeeID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_report_payee_period" json:"payee_id"`
	Year           int             `gorm:"not null;uniqueIndex:idx_report_payee_period" json:"year"`
	Quarter        int             `gorm:"not null;uniqueIndex:idx_report_payee_period" json:"quarter"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"opening_balance"`
	Royalties      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"royalties"`
	Expenses       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"expenses"`
	Payments       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"payments"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"closing_balance"`
}

// TableName returns the table name for GORM
func (QuarterlyBalanceReport) TableName() string {
	return "quarterly_balance_reports"
}

// NewQuarterlyBalanceReport creates a balance report for the payee's quarter.
// The closing balance is derived, never supplied.
func NewQuarterlyBalanceReport(
	tenantID, payeeID uuid.UUID,
	period royalty.QuarterPeriod,
	opening, royalties, expenses, payments decimal.Decimal,
) (*QuarterlyBalanceReport, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "tenant_id", "tenant ID is required")
	}
	if payeeID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "payee_id", "payee ID is required")
	}

	r := &QuarterlyBalanceReport{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayeeID:             payeeID,
		Year:                period.Year,
		Quarter:             period.Quarter,
		OpeningBalance:      opening,
		Royalties:           royalties,
		Expenses:            expenses,
		Payments:            payments,
		ClosingBalance:      opening.Add(royalties).Sub(expenses).Sub(payments),
	}
	r.AddDomainEvent(NewQuarterlyReportCreatedEvent(r))
	return r, nil
}

// PeriodLabel renders the report's quarter in the canonical label form
func (r *QuarterlyBalanceReport) PeriodLabel() string {
	return royalty.QuarterPeriod{Year: r.Year, Quarter: r.Quarter}.String()
}

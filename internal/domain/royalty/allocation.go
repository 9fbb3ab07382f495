package royalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
	"github.com/royaltyops/backend/internal/domain/works"
)

// RoyaltyAllocation is one ingested royalty statement line. It is the
// authoritative source for all aggregation and is immutable once created;
// corrections happen by corrective re-import, never by editing rows.
type RoyaltyAllocation struct {
	shared.TenantAggregateRoot
	WorkID             uuid.UUID              `gorm:"type:uuid;not null;index" json:"work_id"`
	PayeeID            uuid.UUID              `gorm:"type:uuid;not null;index" json:"payee_id"`
	WriterID           uuid.UUID              `gorm:"type:uuid;not null;index" json:"writer_id"`
	GrossRoyaltyAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null" json:"gross_royalty_amount"`
	ControlledStatus   works.ControlledStatus `gorm:"type:varchar(20);not null" json:"controlled_status"`
	Period             string                 `gorm:"type:varchar(10);not null;index" json:"period"` // "Q<1-4> yyyy"
	StatementDate      time.Time              `gorm:"not null;index" json:"statement_date"`
	SourceStatementID  *uuid.UUID             `gorm:"type:uuid;index" json:"source_statement_id,omitempty"`
}

// TableName returns the table name for GORM
func (RoyaltyAllocation) TableName() string {
	return "royalty_allocations"
}

// NewRoyaltyAllocation creates an immutable royalty line
func NewRoyaltyAllocation(
	tenantID uuid.UUID,
	workID, payeeID, writerID uuid.UUID,
	gross valueobject.Money,
	status works.ControlledStatus,
	period string,
	statementDate time.Time,
) (*RoyaltyAllocation, error) {
	if workID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "work_id", "Work ID cannot be empty")
	}
	if payeeID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "payee_id", "Payee ID cannot be empty")
	}
	if writerID == uuid.Nil {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "writer_id", "Writer ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "controlled_status", "Controlled status is not valid")
	}
	if _, err := ParseQuarterPeriod(period); err != nil {
		return nil, err
	}
	if statementDate.IsZero() {
		return nil, shared.NewFieldError(shared.CodeInvalidInput, "statement_date", "Statement date is required")
	}

	return &RoyaltyAllocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WorkID:              workID,
		PayeeID:             payeeID,
		WriterID:            writerID,
		GrossRoyaltyAmount:  gross.Amount(),
		ControlledStatus:    status,
		Period:              period,
		StatementDate:       statementDate,
	}, nil
}

// IsControlled returns true when the line belongs to a controlled writer.
// Controlled status drives the writer splits in fee proration; statement
// aggregation sums every line for the payee regardless of status.
func (r *RoyaltyAllocation) IsControlled() bool {
	return r.ControlledStatus == works.StatusControlled
}

// GetGrossMoney returns the gross amount as Money
func (r *RoyaltyAllocation) GetGrossMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(r.GrossRoyaltyAmount)
}

package royalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

// CalculationMethod distinguishes contractual math from estimated math so
// downstream consumers and audits can tell them apart.
type CalculationMethod string

const (
	MethodAgreementBased CalculationMethod = "agreement_based"
	MethodManual         CalculationMethod = "manual"
)

// RoyaltyStatement is the gross-to-net breakdown for one payee and period
type RoyaltyStatement struct {
	PayeeID              uuid.UUID         `json:"payee_id"`
	ContactName          string            `json:"contact_name"`
	Window               DateRange         `json:"window"`
	GrossRoyalties       valueobject.Money `json:"gross_royalties"`
	CommissionRate       decimal.Decimal   `json:"commission_rate"`
	CommissionDeduction  valueobject.Money `json:"commission_deduction"`
	TotalExpenses        valueobject.Money `json:"total_expenses"`
	NetRoyalties         valueobject.Money `json:"net_royalties"`
	NetPayable           valueobject.Money `json:"net_payable"`
	AdvanceRecoupment    valueobject.Money `json:"advance_recoupment"`
	AmountDue            valueobject.Money `json:"amount_due"`
	CalculationMethod    CalculationMethod `json:"calculation_method"`
	AgreementID          *uuid.UUID        `json:"agreement_id,omitempty"`
	ResolutionWarning    string            `json:"resolution_warning,omitempty"`
}

// StatementCalculator aggregates royalty lines for a payee and period and
// applies commission, expense, and advance-recoupment rules to produce the
// net payable figures a payout is built from.
type StatementCalculator struct {
	allocationRepo RoyaltyAllocationRepository
	expenseRepo    ExpenseRepository
	ledger         *OwnershipLedger
	logger         *zap.Logger
}

// NewStatementCalculator creates a new StatementCalculator
func NewStatementCalculator(
	allocationRepo RoyaltyAllocationRepository,
	expenseRepo ExpenseRepository,
	ledger *OwnershipLedger,
	logger *zap.Logger,
) *StatementCalculator {
	return &StatementCalculator{
		allocationRepo: allocationRepo,
		expenseRepo:    expenseRepo,
		ledger:         ledger,
		logger:         logger,
	}
}

// Calculate produces the royalty statement for a payee over the window.
// When agreementID is supplied and resolves, commission uses the agreement's
// rate and the advance balance is recouped; otherwise the calculation falls
// back to manual mode with a zero contractual rate. Agreement resolution
// failure is logged and recorded on the result, never fatal - a payout must
// always be computable.
func (c *StatementCalculator) Calculate(
	ctx context.Context,
	payee *Payee,
	window DateRange,
	agreementID *uuid.UUID,
) (*RoyaltyStatement, error) {
	group, err := c.ledger.ResolvePayeeGroup(ctx, payee)
	if err != nil {
		// Fall back to the single payee record rather than failing the
		// whole calculation.
		c.logger.Warn("payee group resolution failed, using single payee",
			zap.String("payee_id", payee.ID.String()),
			zap.Error(err),
		)
		group = []Payee{*payee}
	}
	payeeIDs := make([]uuid.UUID, 0, len(group))
	for _, p := range group {
		payeeIDs = append(payeeIDs, p.ID)
	}

	grossAmount, err := c.allocationRepo.SumGrossForPayees(ctx, payee.TenantID, payeeIDs, window)
	if err != nil {
		return nil, err
	}
	gross := valueobject.NewMoneyUSD(grossAmount)

	statement := &RoyaltyStatement{
		PayeeID:           payee.ID,
		ContactName:       payee.ContactName,
		Window:            window,
		GrossRoyalties:    gross,
		CommissionRate:    decimal.Zero,
		CalculationMethod: MethodManual,
	}

	var agreement *Agreement
	if agreementID != nil && *agreementID != uuid.Nil {
		agreement, err = c.ledger.ResolveAgreementByID(ctx, payee.TenantID, *agreementID)
		if err != nil {
			c.logger.Warn("agreement resolution failed, falling back to manual calculation",
				zap.String("payee_id", payee.ID.String()),
				zap.String("agreement_id", agreementID.String()),
				zap.Error(err),
			)
			statement.ResolutionWarning = err.Error()
		} else {
			statement.CalculationMethod = MethodAgreementBased
			statement.AgreementID = agreementID
			statement.CommissionRate = agreement.CommissionPercentage
		}
	}

	commission := gross.CalculatePercentage(statement.CommissionRate)
	commissionExpenses, err := c.sumCommissionExpenses(ctx, payee.TenantID, payeeIDs, window, gross)
	if err != nil {
		return nil, err
	}
	commission = commission.MustAdd(commissionExpenses)
	statement.CommissionDeduction = commission

	recoupable, err := c.sumRecoupableExpenses(ctx, payee.TenantID, payeeIDs, window, gross)
	if err != nil {
		return nil, err
	}
	statement.TotalExpenses = recoupable

	statement.NetRoyalties = gross.MustSubtract(commission)
	statement.NetPayable = statement.NetRoyalties.MustSubtract(recoupable).FloorZero()

	advance := valueobject.ZeroUSD()
	if agreement != nil {
		advance = agreement.GetAdvanceMoney()
	}
	recoupment, err := statement.NetPayable.Min(advance)
	if err != nil {
		return nil, err
	}
	statement.AdvanceRecoupment = recoupment
	statement.AmountDue = statement.NetPayable.MustSubtract(recoupment).FloorZero()

	c.logger.Debug("royalty statement calculated",
		zap.String("payee_id", payee.ID.String()),
		zap.String("method", string(statement.CalculationMethod)),
		zap.String("gross", statement.GrossRoyalties.String()),
		zap.String("amount_due", statement.AmountDue.String()),
	)

	return statement, nil
}

// sumCommissionExpenses resolves commission-flagged approved expenses for the
// payee group, each either flat or a rate on gross.
func (c *StatementCalculator) sumCommissionExpenses(
	ctx context.Context,
	tenantID uuid.UUID,
	payeeIDs []uuid.UUID,
	window DateRange,
	gross valueobject.Money,
) (valueobject.Money, error) {
	approved := ExpenseStatusApproved
	expenses, err := c.expenseRepo.FindAllForTenant(ctx, tenantID, ExpenseFilter{
		PayeeIDs:       payeeIDs,
		Status:         &approved,
		CommissionOnly: true,
		Range:          &window,
	})
	if err != nil {
		return valueobject.Money{}, err
	}

	total := valueobject.Zero(gross.Currency())
	for i := range expenses {
		total = total.MustAdd(expenses[i].EffectiveAmount(gross))
	}
	return total, nil
}

// sumRecoupableExpenses resolves recoupable approved expenses for the payee group
func (c *StatementCalculator) sumRecoupableExpenses(
	ctx context.Context,
	tenantID uuid.UUID,
	payeeIDs []uuid.UUID,
	window DateRange,
	gross valueobject.Money,
) (valueobject.Money, error) {
	approved := ExpenseStatusApproved
	expenses, err := c.expenseRepo.FindAllForTenant(ctx, tenantID, ExpenseFilter{
		PayeeIDs:       payeeIDs,
		Status:         &approved,
		RecoupableOnly: true,
		Range:          &window,
	})
	if err != nil {
		return valueobject.Money{}, err
	}

	total := valueobject.Zero(gross.Currency())
	for i := range expenses {
		total = total.MustAdd(expenses[i].EffectiveAmount(gross))
	}
	return total, nil
}

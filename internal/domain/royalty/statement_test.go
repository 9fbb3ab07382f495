package royalty

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

type fakeAllocationRepo struct {
	gross decimal.Decimal
	err   error
}

func (f *fakeAllocationRepo) FindByID(context.Context, uuid.UUID) (*RoyaltyAllocation, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeAllocationRepo) FindAllForTenant(context.Context, uuid.UUID, AllocationFilter) ([]RoyaltyAllocation, error) {
	return nil, nil
}

func (f *fakeAllocationRepo) SumGrossForPayees(context.Context, uuid.UUID, []uuid.UUID, DateRange) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.gross, nil
}

func (f *fakeAllocationRepo) Save(context.Context, *RoyaltyAllocation) error { return nil }

func (f *fakeAllocationRepo) SaveBatch(context.Context, []RoyaltyAllocation) error { return nil }

func (f *fakeAllocationRepo) CountForTenant(context.Context, uuid.UUID, AllocationFilter) (int64, error) {
	return 0, nil
}

type fakeExpenseRepo struct {
	expenses []Expense
}

func (f *fakeExpenseRepo) FindByID(context.Context, uuid.UUID) (*Expense, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeExpenseRepo) FindAllForTenant(_ context.Context, _ uuid.UUID, filter ExpenseFilter) ([]Expense, error) {
	matched := make([]Expense, 0)
	for _, e := range f.expenses {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.RecoupableOnly && !e.Flags.Recoupable {
			continue
		}
		if filter.CommissionOnly && !e.Flags.CommissionFee {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

func (f *fakeExpenseRepo) Save(context.Context, *Expense) error { return nil }

func (f *fakeExpenseRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type fakePayeeRepo struct {
	byContact map[string][]Payee
}

func (f *fakePayeeRepo) FindByID(context.Context, uuid.UUID) (*Payee, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePayeeRepo) FindByIDForTenant(context.Context, uuid.UUID, uuid.UUID) (*Payee, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePayeeRepo) FindByContactName(_ context.Context, _ uuid.UUID, name string) ([]Payee, error) {
	return f.byContact[name], nil
}

func (f *fakePayeeRepo) Save(context.Context, *Payee) error { return nil }

type fakeAgreementRepo struct {
	agreements map[uuid.UUID]*Agreement
}

func (f *fakeAgreementRepo) FindByID(_ context.Context, id uuid.UUID) (*Agreement, error) {
	if a, ok := f.agreements[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAgreementRepo) FindByIDForTenant(_ context.Context, _ uuid.UUID, id uuid.UUID) (*Agreement, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeAgreementRepo) Save(context.Context, *Agreement) error { return nil }

func testWindow(t *testing.T) DateRange {
	window, err := NewDateRange(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return window
}

func testPayee(t *testing.T, tenantID uuid.UUID) *Payee {
	payee, err := NewPayee(tenantID, "Alex Mercer", uuid.New())
	require.NoError(t, err)
	return payee
}

func TestStatementCalculator(t *testing.T) {
	tenantID := uuid.New()

	t.Run("agreement based calculation with advance recoupment", func(t *testing.T) {
		// gross=10000, commission 15%, advance=2000, recoupable expenses=500
		// -> commission=1500, net=8500, payable=8000, recoup=2000, due=6000.
		agreement, err := NewAgreement(
			tenantID, "AGR-001", uuid.New(),
			valueobject.MustPercentage(15),
			valueobject.NewMoneyUSDFromFloat(2000),
			time.Now(),
		)
		require.NoError(t, err)

		recoupable, err := NewFlatExpense(tenantID, "Studio costs", valueobject.NewMoneyUSDFromFloat(500), ExpenseFlags{Recoupable: true})
		require.NoError(t, err)
		require.NoError(t, recoupable.Approve())

		calc := NewStatementCalculator(
			&fakeAllocationRepo{gross: decimal.NewFromInt(10000)},
			&fakeExpenseRepo{expenses: []Expense{*recoupable}},
			NewOwnershipLedger(&fakePayeeRepo{}, &fakeAgreementRepo{agreements: map[uuid.UUID]*Agreement{agreement.ID: agreement}}),
			zap.NewNop(),
		)

		payee := testPayee(t, tenantID)
		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), &agreement.ID)
		require.NoError(t, err)

		assert.Equal(t, MethodAgreementBased, statement.CalculationMethod)
		assert.Equal(t, "10000.00", statement.GrossRoyalties.StringFixed(2))
		assert.Equal(t, "1500.00", statement.CommissionDeduction.StringFixed(2))
		assert.Equal(t, "8500.00", statement.NetRoyalties.StringFixed(2))
		assert.Equal(t, "500.00", statement.TotalExpenses.StringFixed(2))
		assert.Equal(t, "8000.00", statement.NetPayable.StringFixed(2))
		assert.Equal(t, "2000.00", statement.AdvanceRecoupment.StringFixed(2))
		assert.Equal(t, "6000.00", statement.AmountDue.StringFixed(2))
	})

	t.Run("falls back to manual mode when agreement cannot be resolved", func(t *testing.T) {
		calc := NewStatementCalculator(
			&fakeAllocationRepo{gross: decimal.NewFromInt(10000)},
			&fakeExpenseRepo{},
			NewOwnershipLedger(&fakePayeeRepo{}, &fakeAgreementRepo{agreements: map[uuid.UUID]*Agreement{}}),
			zap.NewNop(),
		)

		payee := testPayee(t, tenantID)
		missing := uuid.New()
		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), &missing)
		require.NoError(t, err, "resolution failure must not fail the calculation")

		assert.Equal(t, MethodManual, statement.CalculationMethod)
		assert.NotEmpty(t, statement.ResolutionWarning)
		assert.True(t, statement.CommissionRate.IsZero())
		assert.Equal(t, "10000.00", statement.AmountDue.StringFixed(2))
		assert.True(t, statement.AdvanceRecoupment.IsZero())
	})

	t.Run("manual mode applies commission flagged expenses", func(t *testing.T) {
		flat, err := NewFlatExpense(tenantID, "Collection fee", valueobject.NewMoneyUSDFromFloat(100), ExpenseFlags{CommissionFee: true})
		require.NoError(t, err)
		require.NoError(t, flat.Approve())

		rated, err := NewRateExpense(tenantID, "Admin fee", valueobject.MustPercentage(5), ExpenseFlags{CommissionFee: true})
		require.NoError(t, err)
		require.NoError(t, rated.Approve())

		calc := NewStatementCalculator(
			&fakeAllocationRepo{gross: decimal.NewFromInt(2000)},
			&fakeExpenseRepo{expenses: []Expense{*flat, *rated}},
			NewOwnershipLedger(&fakePayeeRepo{}, &fakeAgreementRepo{}),
			zap.NewNop(),
		)

		payee := testPayee(t, tenantID)
		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), nil)
		require.NoError(t, err)

		// flat 100 + 5% of 2000 = 200
		assert.Equal(t, "200.00", statement.CommissionDeduction.StringFixed(2))
		assert.Equal(t, "1800.00", statement.AmountDue.StringFixed(2))
	})

	t.Run("pending expenses are excluded", func(t *testing.T) {
		pending, err := NewFlatExpense(tenantID, "Unapproved", valueobject.NewMoneyUSDFromFloat(999), ExpenseFlags{Recoupable: true})
		require.NoError(t, err)

		calc := NewStatementCalculator(
			&fakeAllocationRepo{gross: decimal.NewFromInt(1000)},
			&fakeExpenseRepo{expenses: []Expense{*pending}},
			NewOwnershipLedger(&fakePayeeRepo{}, &fakeAgreementRepo{}),
			zap.NewNop(),
		)

		payee := testPayee(t, tenantID)
		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), nil)
		require.NoError(t, err)
		assert.True(t, statement.TotalExpenses.IsZero())
	})

	t.Run("amount due never goes negative", func(t *testing.T) {
		huge, err := NewFlatExpense(tenantID, "Recall campaign", valueobject.NewMoneyUSDFromFloat(50000), ExpenseFlags{Recoupable: true})
		require.NoError(t, err)
		require.NoError(t, huge.Approve())

		calc := NewStatementCalculator(
			&fakeAllocationRepo{gross: decimal.NewFromInt(1000)},
			&fakeExpenseRepo{expenses: []Expense{*huge}},
			NewOwnershipLedger(&fakePayeeRepo{}, &fakeAgreementRepo{}),
			zap.NewNop(),
		)

		payee := testPayee(t, tenantID)
		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), nil)
		require.NoError(t, err)
		assert.True(t, statement.NetPayable.IsZero())
		assert.True(t, statement.AmountDue.IsZero())
		assert.False(t, statement.AmountDue.IsNegative())
	})

	t.Run("sums across payee records sharing a contact name", func(t *testing.T) {
		payee := testPayee(t, tenantID)
		twin, err := NewPayee(tenantID, payee.ContactName, uuid.New())
		require.NoError(t, err)

		payeeRepo := &fakePayeeRepo{byContact: map[string][]Payee{
			payee.ContactName: {*payee, *twin},
		}}
		repo := &fakeAllocationRepo{gross: decimal.NewFromInt(700)}
		calc := NewStatementCalculator(repo, &fakeExpenseRepo{},
			NewOwnershipLedger(payeeRepo, &fakeAgreementRepo{}), zap.NewNop())

		statement, err := calc.Calculate(context.Background(), payee, testWindow(t), nil)
		require.NoError(t, err)
		assert.Equal(t, "700.00", statement.GrossRoyalties.StringFixed(2))
	})
}

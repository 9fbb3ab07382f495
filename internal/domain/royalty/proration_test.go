package royalty

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
	"github.com/royaltyops/backend/internal/domain/works"
)

func newWorkWithWriters(t *testing.T, title string, shares ...works.WriterShare) works.Work {
	w, err := works.NewWork(uuid.New(), title)
	require.NoError(t, err)
	for _, s := range shares {
		require.NoError(t, w.AddWriterShare(s.WriterID, s.WriterName, s.OwnershipPercentage, s.ControlledStatus))
	}
	return *w
}

func writerShare(name string, pct float64, status works.ControlledStatus) works.WriterShare {
	return works.WriterShare{
		WriterID:            uuid.New(),
		WriterName:          name,
		OwnershipPercentage: decimal.NewFromFloat(pct),
		ControlledStatus:    status,
	}
}

func TestProrateFee(t *testing.T) {
	svc := NewFeeProrationService()

	t.Run("two works one controlled writer", func(t *testing.T) {
		// F=1000, A: W1 60% controlled + W2 40% non-controlled, B: no controlled writers.
		workA := newWorkWithWriters(t, "Song A",
			writerShare("W1", 60, works.StatusControlled),
			writerShare("W2", 40, works.StatusNonControlled),
		)
		workB := newWorkWithWriters(t, "Song B",
			writerShare("W3", 100, works.StatusNonControlled),
		)

		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(1000), []works.Work{workA, workB}, nil)
		require.NoError(t, err)
		require.Len(t, result.Allocations, 2)

		a := result.Allocations[0]
		assert.Equal(t, "500.00", a.AllocatedAmount.StringFixed(2))
		assert.True(t, a.ControlledShare.Equal(decimal.NewFromFloat(0.6)))
		assert.Equal(t, "300.00", a.ControlledAmount.StringFixed(2))
		require.Len(t, a.WriterAllocations, 1)
		assert.Equal(t, "W1", a.WriterAllocations[0].WriterName)
		assert.Equal(t, "300.00", a.WriterAllocations[0].Amount.StringFixed(2))
		assert.False(t, a.FullyUncontrolled)

		b := result.Allocations[1]
		assert.Equal(t, "500.00", b.AllocatedAmount.StringFixed(2))
		assert.True(t, b.ControlledAmount.IsZero())
		assert.True(t, b.FullyUncontrolled)
	})

	t.Run("allocated amounts conserve the fee", func(t *testing.T) {
		selected := []works.Work{
			newWorkWithWriters(t, "One", writerShare("A", 50, works.StatusControlled)),
			newWorkWithWriters(t, "Two", writerShare("B", 50, works.StatusControlled)),
			newWorkWithWriters(t, "Three", writerShare("C", 50, works.StatusControlled)),
		}
		fee := valueobject.NewMoneyUSDFromFloat(100)

		result, err := svc.ProrateFee(fee, selected, nil)
		require.NoError(t, err)

		total := valueobject.ZeroUSD()
		for _, a := range result.Allocations {
			total = total.MustAdd(a.AllocatedAmount.RoundCash())
		}
		diff := fee.MustSubtract(total).Amount().Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
			"allocated %s vs fee %s", total.String(), fee.String())
	})

	t.Run("writer amounts conserve the controlled amount", func(t *testing.T) {
		work := newWorkWithWriters(t, "Three Way",
			writerShare("A", 33.33, works.StatusControlled),
			writerShare("B", 33.33, works.StatusControlled),
			writerShare("C", 33.34, works.StatusControlled),
		)

		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(100), []works.Work{work}, nil)
		require.NoError(t, err)
		require.Len(t, result.Allocations, 1)

		alloc := result.Allocations[0]
		sum := valueobject.ZeroUSD()
		for _, wa := range alloc.WriterAllocations {
			sum = sum.MustAdd(wa.Amount)
		}
		assert.True(t, sum.Equals(alloc.ControlledAmount.RoundCash()),
			"writer sum %s vs controlled %s", sum.String(), alloc.ControlledAmount.String())
	})

	t.Run("custom overrides and equal split of the remainder", func(t *testing.T) {
		workA := newWorkWithWriters(t, "Pinned", writerShare("A", 100, works.StatusControlled))
		workB := newWorkWithWriters(t, "Floating One", writerShare("B", 100, works.StatusControlled))
		workC := newWorkWithWriters(t, "Floating Two", writerShare("C", 100, works.StatusControlled))

		overrides := map[uuid.UUID]valueobject.Money{
			workA.ID: valueobject.NewMoneyUSDFromFloat(400),
		}
		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(1000), []works.Work{workA, workB, workC}, overrides)
		require.NoError(t, err)

		assert.Equal(t, "400.00", result.Allocations[0].AllocatedAmount.StringFixed(2))
		assert.True(t, result.Allocations[0].CustomOverride)
		assert.Equal(t, "300.00", result.Allocations[1].AllocatedAmount.StringFixed(2))
		assert.Equal(t, "300.00", result.Allocations[2].AllocatedAmount.StringFixed(2))
		assert.True(t, result.UnallocatedRemainder.IsZero())
	})

	t.Run("overrides exceeding the fee are rejected when works remain to split", func(t *testing.T) {
		workA := newWorkWithWriters(t, "Pinned", writerShare("A", 100, works.StatusControlled))
		workB := newWorkWithWriters(t, "Floating", writerShare("B", 100, works.StatusControlled))

		overrides := map[uuid.UUID]valueobject.Money{
			workA.ID: valueobject.NewMoneyUSDFromFloat(1200),
		}
		_, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(1000), []works.Work{workA, workB}, overrides)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
		de := err.(*shared.DomainError)
		assert.Equal(t, "overrides", de.Field)
	})

	t.Run("all works overridden reports the remainder", func(t *testing.T) {
		workA := newWorkWithWriters(t, "Pinned A", writerShare("A", 100, works.StatusControlled))
		workB := newWorkWithWriters(t, "Pinned B", writerShare("B", 100, works.StatusControlled))

		overrides := map[uuid.UUID]valueobject.Money{
			workA.ID: valueobject.NewMoneyUSDFromFloat(300),
			workB.ID: valueobject.NewMoneyUSDFromFloat(500),
		}
		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(1000), []works.Work{workA, workB}, overrides)
		require.NoError(t, err)
		assert.Equal(t, "200.00", result.UnallocatedRemainder.StringFixed(2))
	})

	t.Run("zero controlled ownership yields zero without division", func(t *testing.T) {
		work := newWorkWithWriters(t, "Foreign Catalog",
			writerShare("X", 100, works.StatusNonControlled),
		)
		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(500), []works.Work{work}, nil)
		require.NoError(t, err)
		require.Len(t, result.Allocations, 1)
		assert.True(t, result.Allocations[0].ControlledAmount.IsZero())
		assert.True(t, result.Allocations[0].FullyUncontrolled)
	})

	t.Run("empty selection returns empty result", func(t *testing.T) {
		result, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(500), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Allocations)
	})

	t.Run("negative fee is rejected", func(t *testing.T) {
		_, err := svc.ProrateFee(valueobject.NewMoneyUSDFromFloat(-1), nil, nil)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
		de := err.(*shared.DomainError)
		assert.Equal(t, "fee", de.Field)
	})

	t.Run("zero fee allocates zero everywhere", func(t *testing.T) {
		work := newWorkWithWriters(t, "Zero", writerShare("A", 100, works.StatusControlled))
		result, err := svc.ProrateFee(valueobject.ZeroUSD(), []works.Work{work}, nil)
		require.NoError(t, err)
		assert.True(t, result.Allocations[0].AllocatedAmount.IsZero())
		assert.True(t, result.Allocations[0].WriterAllocations[0].Amount.IsZero())
	})
}

package works

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestWork(t *testing.T) *Work {
	w, err := NewWork(uuid.New(), "Midnight Train")
	require.NoError(t, err)
	return w
}

func TestNewWork(t *testing.T) {
	t.Run("creates work with valid title", func(t *testing.T) {
		tenantID := uuid.New()
		w, err := NewWork(tenantID, "Midnight Train")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, w.ID)
		assert.Equal(t, tenantID, w.TenantID)
		assert.Equal(t, "Midnight Train", w.Title)
		assert.Empty(t, w.WriterShares)
		assert.NotEmpty(t, w.GetDomainEvents())
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewWork(uuid.New(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title")
	})
}

func TestAddWriterShare(t *testing.T) {
	t.Run("appends controlled share", func(t *testing.T) {
		w := createTestWork(t)
		err := w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(60), StatusControlled)
		require.NoError(t, err)
		require.Len(t, w.WriterShares, 1)
		assert.True(t, w.WriterShares[0].IsControlled())
		assert.Equal(t, 0, w.WriterShares[0].Position)
	})

	t.Run("rejects sum above 100", func(t *testing.T) {
		w := createTestWork(t)
		require.NoError(t, w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(60), StatusControlled))
		err := w.AddWriterShare(uuid.New(), "Sam Reed", decimal.NewFromInt(45), StatusNonControlled)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceed 100%")
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		w := createTestWork(t)
		err := w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(10), ControlledStatus("MAYBE"))
		require.Error(t, err)
	})

	t.Run("rejects negative percentage", func(t *testing.T) {
		w := createTestWork(t)
		err := w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(-5), StatusControlled)
		require.Error(t, err)
	})
}

func TestPublisherSharesTrackedIndependently(t *testing.T) {
	w := createTestWork(t)
	require.NoError(t, w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(100), StatusControlled))

	// Writers already at 100%; publishers have their own ceiling.
	err := w.AddPublisherShare(uuid.New(), "Northside Music", decimal.NewFromInt(100))
	require.NoError(t, err)

	err = w.AddPublisherShare(uuid.New(), "Southside Music", decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestControlledShare(t *testing.T) {
	t.Run("mixed controlled and non-controlled", func(t *testing.T) {
		w := createTestWork(t)
		require.NoError(t, w.AddWriterShare(uuid.New(), "Alex Mercer", decimal.NewFromInt(60), StatusControlled))
		require.NoError(t, w.AddWriterShare(uuid.New(), "Sam Reed", decimal.NewFromInt(40), StatusNonControlled))

		assert.True(t, w.ControlledPercentageTotal().Equal(decimal.NewFromInt(60)))
		assert.True(t, w.ControlledShare().Equal(decimal.NewFromFloat(0.6)))
		assert.Len(t, w.ControlledWriters(), 1)
		assert.False(t, w.IsFullyUncontrolled())
	})

	t.Run("fully uncontrolled work", func(t *testing.T) {
		w := createTestWork(t)
		require.NoError(t, w.AddWriterShare(uuid.New(), "Sam Reed", decimal.NewFromInt(100), StatusNonControlled))

		assert.True(t, w.ControlledShare().IsZero())
		assert.True(t, w.IsFullyUncontrolled())
	})

	t.Run("work with no writers", func(t *testing.T) {
		w := createTestWork(t)
		assert.True(t, w.IsFullyUncontrolled())
		assert.Empty(t, w.ControlledWriters())
	})
}

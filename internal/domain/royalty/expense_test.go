package royalty

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royaltyops/backend/internal/domain/shared"
	"github.com/royaltyops/backend/internal/domain/shared/valueobject"
)

func TestExpenseSetIncurredOn(t *testing.T) {
	expense, err := NewFlatExpense(uuid.New(), "Session fee",
		valueobject.NewMoneyUSDFromFloat(100), ExpenseFlags{})
	require.NoError(t, err)

	t.Run("accepts yyyy-mm-dd", func(t *testing.T) {
		require.NoError(t, expense.SetIncurredOn("2025-03-31"))
		assert.Equal(t, "2025-03-31", expense.IncurredOn)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		for _, date := range []string{"31/03/2025", "2025-3-1", "yesterday", ""} {
			err := expense.SetIncurredOn(date)
			require.Error(t, err, date)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
		}
		assert.Equal(t, "2025-03-31", expense.IncurredOn, "a failed set leaves the date alone")
	})
}

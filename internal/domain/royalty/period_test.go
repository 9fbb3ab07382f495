package royalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royaltyops/backend/internal/domain/shared"
)

func TestParseQuarterPeriod(t *testing.T) {
	t.Run("parses valid periods", func(t *testing.T) {
		p, err := ParseQuarterPeriod("Q1 2025")
		require.NoError(t, err)
		assert.Equal(t, 2025, p.Year)
		assert.Equal(t, 1, p.Quarter)
		assert.Equal(t, "Q1 2025", p.String())
	})

	t.Run("rejects malformed strings", func(t *testing.T) {
		for _, s := range []string{"", "2025 Q1", "Q5 2025", "Q0 2024", "first quarter", "Q2"} {
			_, err := ParseQuarterPeriod(s)
			require.Error(t, err, "expected %q to be rejected", s)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
		}
	})

	t.Run("quarter range spans three months", func(t *testing.T) {
		p, err := ParseQuarterPeriod("Q2 2025")
		require.NoError(t, err)
		start, end := p.Range()
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.June, end.Month())
		assert.Equal(t, 30, end.Day())
	})
}

func TestDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("end is treated as end of day", func(t *testing.T) {
		r, err := NewDateRange(start, end)
		require.NoError(t, err)

		lastMoment := time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)
		assert.True(t, r.Contains(lastMoment))
		assert.True(t, r.Contains(start))
		assert.False(t, r.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects inverted windows", func(t *testing.T) {
		_, err := NewDateRange(end, start)
		require.Error(t, err)
	})
}

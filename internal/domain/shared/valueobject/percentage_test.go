package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPercentage(t *testing.T) {
	t.Run("accepts values in range", func(t *testing.T) {
		p, err := NewPercentageFromFloat(60)
		require.NoError(t, err)
		assert.Equal(t, "60.00%", p.String())
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := NewPercentageFromFloat(-1)
		require.Error(t, err)
	})

	t.Run("rejects above 100", func(t *testing.T) {
		_, err := NewPercentageFromFloat(100.01)
		require.Error(t, err)
	})

	t.Run("rounds to two places", func(t *testing.T) {
		p, err := NewPercentage(decimal.NewFromFloat(33.333))
		require.NoError(t, err)
		assert.Equal(t, "33.33%", p.String())
	})
}

func TestPercentageFraction(t *testing.T) {
	p := MustPercentage(60)
	assert.True(t, p.Fraction().Equal(decimal.NewFromFloat(0.6)))
}

func TestPercentageOf(t *testing.T) {
	p := MustPercentage(15)
	m := p.Of(NewMoneyUSDFromFloat(10000))
	assert.Equal(t, "1500.00", m.StringFixed(2))
}

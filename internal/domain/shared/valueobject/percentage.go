package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percentage is a value object for ownership shares and commission rates.
// Valid range is 0-100 with two decimal places of precision.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage creates a Percentage, rejecting values outside 0-100
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() {
		return Percentage{}, fmt.Errorf("percentage cannot be negative: %s", value)
	}
	if value.GreaterThan(decimal.NewFromInt(100)) {
		return Percentage{}, fmt.Errorf("percentage cannot exceed 100: %s", value)
	}
	return Percentage{value: value.Round(2)}, nil
}

// NewPercentageFromFloat creates a Percentage from a float64
func NewPercentageFromFloat(value float64) (Percentage, error) {
	return NewPercentage(decimal.NewFromFloat(value))
}

// MustPercentage creates a Percentage, panicking on invalid values.
// Intended for constants and tests.
func MustPercentage(value float64) Percentage {
	p, err := NewPercentageFromFloat(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent returns a zero percentage
func ZeroPercent() Percentage {
	return Percentage{value: decimal.Zero}
}

// Value returns the decimal value (0-100)
func (p Percentage) Value() decimal.Decimal {
	return p.value
}

// Fraction returns the value divided by 100 (0-1)
func (p Percentage) Fraction() decimal.Decimal {
	return p.value.Div(decimal.NewFromInt(100))
}

// IsZero returns true if the percentage is zero
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// Add returns the sum of two percentages without range clamping.
// Callers validating share sums check the result themselves.
func (p Percentage) Add(other Percentage) decimal.Decimal {
	return p.value.Add(other.value)
}

// Of returns the percentage of the given Money
func (p Percentage) Of(m Money) Money {
	return m.CalculatePercentage(p.value)
}

// String returns the percentage with two decimal places
func (p Percentage) String() string {
	return p.value.StringFixed(2) + "%"
}

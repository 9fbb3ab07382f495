package royalty

import (
	"fmt"
	"time"

	"github.com/royaltyops/backend/internal/domain/shared"
)

// QuarterPeriod is a parsed "Q<1-4> <yyyy>" payout period
type QuarterPeriod struct {
	Year    int
	Quarter int
}

// ParseQuarterPeriod parses a period string of the form "Q<1-4> <yyyy>".
// Malformed periods are an INVALID_INPUT error naming the period field; there
// is deliberately no fallback to the current date, which would silently
// misattribute quarterly reports.
func ParseQuarterPeriod(period string) (QuarterPeriod, error) {
	var quarter, year int
	n, err := fmt.Sscanf(period, "Q%d %d", &quarter, &year)
	if err != nil || n != 2 {
		return QuarterPeriod{}, shared.NewFieldError(shared.CodeInvalidInput, "period",
			fmt.Sprintf("Period %q is not of the form \"Q<1-4> <yyyy>\"", period))
	}
	if quarter < 1 || quarter > 4 {
		return QuarterPeriod{}, shared.NewFieldError(shared.CodeInvalidInput, "period",
			fmt.Sprintf("Quarter %d is out of range 1-4", quarter))
	}
	if year < 1900 || year > 9999 {
		return QuarterPeriod{}, shared.NewFieldError(shared.CodeInvalidInput, "period",
			fmt.Sprintf("Year %d is out of range", year))
	}
	return QuarterPeriod{Year: year, Quarter: quarter}, nil
}

// String formats the period back to "Q<1-4> <yyyy>"
func (p QuarterPeriod) String() string {
	return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
}

// Range returns the inclusive start and end-of-day end of the quarter in UTC
func (p QuarterPeriod) Range() (time.Time, time.Time) {
	startMonth := time.Month((p.Quarter-1)*3 + 1)
	start := time.Date(p.Year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0).Add(-time.Nanosecond)
	return start, end
}

// DateRange is an aggregation window. End is treated as end-of-day: callers
// supply calendar dates and the window covers [Start, end-of-day(End)].
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a validated aggregation window
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, shared.NewFieldError(shared.CodeInvalidInput, "period", "Period start and end are required")
	}
	if end.Before(start) {
		return DateRange{}, shared.NewFieldError(shared.CodeInvalidInput, "period", "Period end cannot precede period start")
	}
	return DateRange{Start: start, End: end}, nil
}

// EndOfDay returns the window's exclusive upper bound pushed to end-of-day
func (r DateRange) EndOfDay() time.Time {
	y, m, d := r.End.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), r.End.Location())
}

// Contains reports whether t falls inside the window
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.EndOfDay())
}

package models

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping its calendar day in UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, NewValidationError(field, "date is required")
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// FormatDate renders a date in wire format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether the day is a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DatePolicy holds the calendar rules for selectable dates.
type DatePolicy struct {
	// Horizon is the last selectable day. Zero means unbounded.
	Horizon time.Time
}

// ValidateServiceDay checks a date for the daily flows: it must not be in
// the past, not on a weekend and not beyond the horizon.
func (p DatePolicy) ValidateServiceDay(date, now time.Time) error {
	day := DateOf(date)
	if day.Before(DateOf(now)) {
		return NewValidationError("date", "Please select a future date")
	}
	if IsWeekend(day) {
		return NewValidationError("date", "Please select a weekday")
	}
	if p.beyondHorizon(day) {
		return NewValidationError("date", "date is beyond the planning horizon")
	}
	return nil
}

// ValidatePlanStart checks the first day of a weekly plan: a Monday that is
// strictly after today.
func (p DatePolicy) ValidatePlanStart(date, now time.Time) error {
	day := DateOf(date)
	if !day.After(DateOf(now)) || day.Weekday() != time.Monday {
		return NewValidationError("start_date", "Please select a future Monday")
	}
	if p.beyondHorizon(day) {
		return NewValidationError("start_date", "date is beyond the planning horizon")
	}
	return nil
}

func (p DatePolicy) beyondHorizon(day time.Time) bool {
	return !p.Horizon.IsZero() && day.After(DateOf(p.Horizon))
}

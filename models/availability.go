package models

import "time"

// DateLayout is the wire format for all calendar dates exchanged with the backend.
const DateLayout = "2006-01-02"

// AvailabilityPeriod is a closed date interval during which a room may be booked.
// A room with no periods at all is treated as unrestricted.
type AvailabilityPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Contains reports whether the given date falls inside the period, inclusive on
// both ends. Dates are compared at day granularity; boundary equality counts as
// membership regardless of time-of-day.
func (p AvailabilityPeriod) Contains(d time.Time) bool {
	day := Midnight(d)
	start := Midnight(p.StartDate)
	end := Midnight(p.EndDate)
	inside := day.After(start) && day.Before(end)
	return inside || day.Equal(start) || day.Equal(end)
}

// Midnight truncates a time to its calendar date. The result is anchored in
// UTC so dates observed in different zones compare equal at day granularity.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

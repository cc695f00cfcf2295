// Package availability answers containment and nearest-window queries over a
// room's advertised availability periods. Everything here is pure: periods are
// materialized fresh from room data on every read and never persisted.
package availability

import (
	"encoding/json"
	"time"

	"haven/models"
)

// rawPeriod mirrors the backend's period payload before validation.
type rawPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ParsePeriods decodes a room's availability payload, which is either a JSON
// array of periods or a string holding one. Entries missing either boundary are
// dropped; an unreadable payload yields an empty list. Empty means unrestricted
// availability, so parsing fails open rather than closed.
func ParsePeriods(raw json.RawMessage) []models.AvailabilityPeriod {
	if len(raw) == 0 {
		return nil
	}

	payload := []byte(raw)
	// Unwrap a serialized-JSON string payload first.
	var nested string
	if err := json.Unmarshal(payload, &nested); err == nil {
		payload = []byte(nested)
	}

	var entries []rawPeriod
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil
	}

	periods := make([]models.AvailabilityPeriod, 0, len(entries))
	for _, entry := range entries {
		if entry.StartDate == "" || entry.EndDate == "" {
			continue
		}
		start, okStart := parseDate(entry.StartDate)
		end, okEnd := parseDate(entry.EndDate)
		if !okStart || !okEnd {
			continue
		}
		periods = append(periods, models.AvailabilityPeriod{StartDate: start, EndDate: end})
	}
	return periods
}

func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(models.DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// IsDateInPeriods reports whether the date falls inside any period, inclusive on
// both ends. An empty period list means the room is unrestricted.
func IsDateInPeriods(date time.Time, periods []models.AvailabilityPeriod) bool {
	if len(periods) == 0 {
		return true
	}
	for _, p := range periods {
		if p.Contains(date) {
			return true
		}
	}
	return false
}

// IsRangeInPeriods reports whether a single period entirely contains the
// [checkIn, checkOut] range. Each bound counts as contained when it falls
// inside the period or lands exactly on a boundary date. Periods are checked
// one at a time: a range straddling two adjacent periods is rejected even when
// their union would cover it. An empty list means unrestricted.
func IsRangeInPeriods(checkIn, checkOut time.Time, periods []models.AvailabilityPeriod) bool {
	if len(periods) == 0 {
		return true
	}
	for _, p := range periods {
		if p.Contains(checkIn) && p.Contains(checkOut) {
			return true
		}
	}
	return false
}

// NearestUpcomingPeriod returns the not-yet-ended period with the earliest
// start date, evaluated against now; ties keep the original order. Returns nil
// when every period has already ended. Used to suggest the next valid window
// after a rejected range.
func NearestUpcomingPeriod(periods []models.AvailabilityPeriod, now time.Time) *models.AvailabilityPeriod {
	today := models.Midnight(now)

	var nearest *models.AvailabilityPeriod
	for i := range periods {
		p := periods[i]
		if models.Midnight(p.EndDate).Before(today) {
			continue
		}
		if nearest == nil || models.Midnight(p.StartDate).Before(models.Midnight(nearest.StartDate)) {
			nearest = &periods[i]
		}
	}
	return nearest
}

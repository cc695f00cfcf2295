package reservation

import (
	"time"

	"haven/models"
	"haven/services/availability"
)

// AddDuration derives a check-out date from a check-in date and a stay length.
// Month and year additions are calendar additions that preserve the day of
// month, clamping to the destination month's last day when it is shorter
// (2024-01-31 plus one month is 2024-02-29, not 2024-03-02).
func AddDuration(checkIn time.Time, code models.DurationCode) time.Time {
	switch code {
	case models.DurationDay:
		return checkIn.AddDate(0, 0, 1)
	case models.DurationMonth:
		return addMonthsClamped(checkIn, 1)
	case models.Duration3Months:
		return addMonthsClamped(checkIn, 3)
	case models.Duration6Months:
		return addMonthsClamped(checkIn, 6)
	case models.DurationYear:
		return addMonthsClamped(checkIn, 12)
	}
	return checkIn
}

func addMonthsClamped(t time.Time, months int) time.Time {
	// Anchor on the first of the target month, then clamp the day.
	anchor := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	target := anchor.AddDate(0, months, 0)
	day := t.Day()
	if last := lastDayOfMonth(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// recompute refreshes every derived draft field after a mutation: check-out via
// calendar arithmetic, price from the tariff matching the duration code, and
// validity against the room's availability windows. Runs synchronously inside
// each mutation so no inconsistent intermediate state is ever observable.
func recompute(draft *models.BookingDraft) {
	draft.CheckIn = models.Midnight(draft.CheckIn)
	draft.CheckOut = AddDuration(draft.CheckIn, draft.DurationCode)

	if pkg, ok := draft.Room.PackageFor(draft.DurationCode); ok {
		draft.Price = pkg.Price
		draft.PriceLabel = pkg.Label
	} else {
		draft.Price = 0
		draft.PriceLabel = ""
	}

	draft.IsValid = availability.IsRangeInPeriods(draft.CheckIn, draft.CheckOut, draft.Periods)

	// A stale channel selection no longer prices the draft.
	if draft.ChannelCode != "" {
		draft.Fee = 0
		draft.Total = 0
		draft.ChannelCode = ""
	}
}

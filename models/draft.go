package models

import "time"

// DurationCode is an enumerated stay length mapped to a room tariff.
type DurationCode string

const (
	DurationDay     DurationCode = "day"
	DurationMonth   DurationCode = "1mo"
	Duration3Months DurationCode = "3mo"
	Duration6Months DurationCode = "6mo"
	DurationYear    DurationCode = "1yr"
	DefaultDuration              = DurationMonth
)

// ValidDurationCode reports whether code is one of the supported stay lengths.
func ValidDurationCode(code DurationCode) bool {
	switch code {
	case DurationDay, DurationMonth, Duration3Months, Duration6Months, DurationYear:
		return true
	}
	return false
}

// SessionState is the reservation session's position in the booking flow.
type SessionState string

const (
	StateGathering SessionState = "gathering"
	StatePricing   SessionState = "pricing"
	StateConfirmed SessionState = "confirmed"
)

// Guest holds the contact details attached to a reservation draft.
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingDraft is the mutable, session-scoped in-progress reservation. Exactly
// one draft is live per session; every field write recomputes CheckOut, Price
// and IsValid before the caller's next action is accepted.
type BookingDraft struct {
	SessionID string       `json:"sessionId"`
	State     SessionState `json:"state"`
	UserID    string       `json:"userId"`

	Room    Room                 `json:"room"`
	Periods []AvailabilityPeriod `json:"periods,omitempty"`

	CheckIn      time.Time    `json:"checkIn"`
	DurationCode DurationCode `json:"durationCode"`
	CheckOut     time.Time    `json:"checkOut"`

	Guest      Guest  `json:"guest"`
	Price      int64  `json:"price"`
	PriceLabel string `json:"priceLabel"`
	IsValid    bool   `json:"isValid"`

	// Pricing-state selections.
	ChannelCode string `json:"channelCode,omitempty"`
	Fee         int64  `json:"fee,omitempty"`
	Total       int64  `json:"total,omitempty"`

	// Set once the session reaches Confirmed.
	OrderNumber string `json:"orderNumber,omitempty"`
}

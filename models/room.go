package models

import "encoding/json"

// RoomPackage is one tariff a room can be booked under, keyed by duration code.
type RoomPackage struct {
	ID           int          `json:"id"`
	DurationCode DurationCode `json:"duration_code"`
	Price        int64        `json:"price"`
	Label        string       `json:"label"`
}

// Room is the slice of the backend's room detail the reservation engine consumes:
// identity, tariffs, and the raw availability payload. The backend remains the
// authority for everything else.
type Room struct {
	ID       int           `json:"id"`
	KosID    int           `json:"kos_id"`
	Name     string        `json:"name"`
	Packages []RoomPackage `json:"packages"`

	// Availability is either a JSON array of periods or a string holding one,
	// depending on backend version. Parsed by the availability service.
	Availability json.RawMessage `json:"availability,omitempty"`
}

// PackageFor returns the tariff matching the duration code, if any.
func (r Room) PackageFor(code DurationCode) (RoomPackage, bool) {
	for _, p := range r.Packages {
		if p.DurationCode == code {
			return p, true
		}
	}
	return RoomPackage{}, false
}

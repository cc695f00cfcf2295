package models

// Profile is the authenticated user's record as held by the backend. Only the
// fields the reservation flow reads are modeled: contact details for seeding a
// draft, and the identity-document state that gates entry to the flow.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	IdentityCardURL   string `json:"identity_card_url"`
	SelfieWithCardURL string `json:"selfie_with_card_url"`
}

// HasRequiredDocuments reports whether both identity documents are on file.
func (p Profile) HasRequiredDocuments() bool {
	return p.IdentityCardURL != "" && p.SelfieWithCardURL != ""
}

// ProfileUpdate is the payload for synchronizing the backend profile with a
// draft's guest fields. Document files ride along as multipart when present.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateTransactionRequest is step 2 of the reservation saga: the booking
// transaction the backend persists and assigns an order number to.
type CreateTransactionRequest struct {
	Amount    int64  `json:"amount"`
	Quantity  int    `json:"quantity"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	RoomID    int    `json:"room_id"`
	KosID     int    `json:"kos_id"`
	PackageID int    `json:"package_id"`
}

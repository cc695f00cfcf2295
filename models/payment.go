package models

// ChannelFee is a payment channel's pricing: a flat amount plus a percentage of
// the transaction, both in whole currency units.
type ChannelFee struct {
	Flat    int64   `json:"flat"`
	Percent float64 `json:"percent"`
}

// PaymentChannel is one way a guest can pay, as advertised by the gateway proxy.
type PaymentChannel struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Group    string     `json:"group"`
	Fee      ChannelFee `json:"fee"`
	IsActive bool       `json:"is_active"`
}

// PaymentStatus is the gateway-reported state of a payment or transaction.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusSettled  PaymentStatus = "settled"
	StatusExpired  PaymentStatus = "expired"
	StatusCanceled PaymentStatus = "canceled"
	StatusFailed   PaymentStatus = "failed"
)

// PaymentDetail is the slice of the gateway's payment/transaction detail the
// reconciler observes while polling.
type PaymentDetail struct {
	Reference   string        `json:"reference"`
	MerchantRef string        `json:"merchant_ref"`
	Status      PaymentStatus `json:"status"`
	Amount      int64         `json:"amount"`
	CheckoutURL string        `json:"checkout_url,omitempty"`
}

// CreatePaymentRequest initiates a gateway payment for an existing order.
type CreatePaymentRequest struct {
	OrderNumber string `json:"no_order"`
	ChannelCode string `json:"method"`
	Amount      int64  `json:"amount"`
	MerchantRef string `json:"merchant_ref"`
}

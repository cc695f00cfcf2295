package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"haven/models"
)

// PaymentChannels lists the gateway's payment channels, active and inactive.
// Filtering to active channels is the catalog's job, not the client's.
func (c *Client) PaymentChannels(ctx context.Context) ([]models.PaymentChannel, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/payments/channels", nil)
	if err != nil {
		return nil, err
	}

	var channels []models.PaymentChannel
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("failed to parse payment channels: %w", err)
	}
	return channels, nil
}

// CreatePayment initiates a gateway payment for an existing order and returns
// the gateway's reference plus the checkout URL.
func (c *Client) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (models.PaymentDetail, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/payments", req)
	if err != nil {
		return models.PaymentDetail{}, err
	}

	var detail models.PaymentDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return models.PaymentDetail{}, fmt.Errorf("failed to parse payment response: %w", err)
	}
	// Some gateway versions leave the merchant ref to the client.
	if detail.MerchantRef == "" {
		detail.MerchantRef = req.MerchantRef
	}
	return detail, nil
}

// PaymentDetail fetches the current state of a payment by gateway reference.
func (c *Client) PaymentDetail(ctx context.Context, reference string) (models.PaymentDetail, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/payments/"+reference, nil)
	if err != nil {
		return models.PaymentDetail{}, err
	}

	var detail models.PaymentDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return models.PaymentDetail{}, fmt.Errorf("failed to parse payment detail: %w", err)
	}
	return detail, nil
}

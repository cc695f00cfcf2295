package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"haven/models"
)

// CreateTransaction persists a booking transaction on the backend and returns
// the assigned order number. Two response shapes are in the wild: a nested
// data.no_order and a top-level no_order; both are accepted.
func (c *Client) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/transactions", req)
	if err != nil {
		return "", err
	}

	var shape struct {
		NoOrder string `json:"no_order"`
		Data    struct {
			NoOrder string `json:"no_order"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return "", fmt.Errorf("failed to parse transaction response: %w", err)
	}

	switch {
	case shape.Data.NoOrder != "":
		return shape.Data.NoOrder, nil
	case shape.NoOrder != "":
		return shape.NoOrder, nil
	}
	return "", errors.New("transaction response did not include an order number")
}

// AdminContact returns the administrator's contact number, used to build the
// human-handoff deep link after a reservation is confirmed.
func (c *Client) AdminContact(ctx context.Context) (string, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/admin/contact", nil)
	if err != nil {
		return "", err
	}

	var contact struct {
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(data, &contact); err != nil {
		return "", fmt.Errorf("failed to parse admin contact: %w", err)
	}
	return contact.Phone, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"haven/models"
)

// Profile fetches the authenticated caller's profile, including the
// identity-document state that gates the reservation flow.
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile synchronizes the caller's profile with the given contact fields.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/profile", upd)
	return err
}

// UpdateProfileWithDocuments synchronizes the profile and attaches document
// files as a multipart form. Field names follow the backend's upload contract.
func (c *Client) UpdateProfileWithDocuments(ctx context.Context, upd models.ProfileUpdate, files map[string]io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":  upd.Name,
		"email": upd.Email,
		"phone": upd.Phone,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	for name, file := range files {
		part, err := writer.CreateFormFile(name, name)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", name, err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to copy form file %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profile", &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, err = c.send(req)
	return err
}

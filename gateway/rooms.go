package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"haven/models"
)

// RoomDetail fetches a room's detail: tariffs and the raw availability payload.
func (c *Client) RoomDetail(ctx context.Context, roomID int) (models.Room, error) {
	data, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d", roomID), nil)
	if err != nil {
		return models.Room{}, err
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return models.Room{}, fmt.Errorf("failed to parse room detail: %w", err)
	}
	return room, nil
}

package mfl_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/draftwatch/go/internal/models"
)

type PlayersResponse struct {
	Players struct {
		Player OneOrMany[models.Player] `json:"player"`
	} `json:"players"`
}

// GetPlayers returns the full player universe for the configured year.
func (c *MFLClient) GetPlayers(ctx context.Context) ([]models.Player, error) {
	body, err := c.export(ctx, TypePlayers, nil)
	if err != nil {
		return nil, err
	}

	var response PlayersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players response: %w", err)
	}

	return response.Players.Player, nil
}

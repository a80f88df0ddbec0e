package mfl_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/draftwatch/go/internal/models"
)

type LeagueResponse struct {
	League struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Franchises struct {
			Count     string                      `json:"count"`
			Franchise OneOrMany[models.Franchise] `json:"franchise"`
		} `json:"franchises"`
	} `json:"league"`
}

// League is the decoded league document together with the raw body it was
// decoded from.
type League struct {
	ID         string
	Name       string
	Franchises []models.Franchise
	Raw        []byte
}

// GetLeague returns the league settings, including its franchises.
func (c *MFLClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	body, err := c.export(ctx, TypeLeague, leagueParams(leagueID))
	if err != nil {
		return nil, err
	}

	var response LeagueResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal league response: %w", err)
	}

	return &League{
		ID:         response.League.ID,
		Name:       response.League.Name,
		Franchises: response.League.Franchises.Franchise,
		Raw:        body,
	}, nil
}

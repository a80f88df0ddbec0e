package mfl_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/draftwatch/go/internal/models"
)

type DraftUnit struct {
	Unit      string                      `json:"unit"`
	DraftType string                      `json:"draftType"`
	DraftPick OneOrMany[models.DraftPick] `json:"draftPick"`
}

type DraftResultsResponse struct {
	DraftResults struct {
		DraftUnit OneOrMany[DraftUnit] `json:"draftUnit"`
	} `json:"draftResults"`
}

// GetDraftResults returns every draft slot of the league, made or not, in the
// order the service reports them. Multi-unit drafts are concatenated unit by
// unit.
func (c *MFLClient) GetDraftResults(ctx context.Context, leagueID string) ([]models.DraftPick, error) {
	body, err := c.export(ctx, TypeDraftResults, leagueParams(leagueID))
	if err != nil {
		return nil, err
	}

	var response DraftResultsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft results response: %w", err)
	}

	var picks []models.DraftPick
	for _, unit := range response.DraftResults.DraftUnit {
		picks = append(picks, unit.DraftPick...)
	}
	return picks, nil
}

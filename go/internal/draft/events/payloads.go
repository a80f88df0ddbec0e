package events

import (
	"time"
)

// Event types published for draft activity
const (
	EventTypePickMade = "PickMade"
)

// PickMadePayload is published once for every newly observed pick
type PickMadePayload struct {
	PickKey       string    `json:"pick_key"`
	LeagueID      string    `json:"league_id"`
	FranchiseID   string    `json:"franchise_id"`
	FranchiseName string    `json:"franchise_name"`
	PlayerID      string    `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	Position      string    `json:"position"`
	Round         string    `json:"round"`
	Pick          string    `json:"pick"`
	OverallPick   int       `json:"overall_pick"`
	Skipped       bool      `json:"skipped"`
	MadeAt        string    `json:"made_at"` // upstream timestamp, as reported
	ObservedAt    time.Time `json:"observed_at"`
}

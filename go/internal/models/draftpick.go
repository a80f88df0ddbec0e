package models

// SkipPlayerID is the player id the league service reports for a pick the
// franchise passed on.
const SkipPlayerID = "----"

// DraftPick is one slot of a league draft as reported by the league service.
// Round and Pick are kept in their upstream string form so they display and
// key exactly as received.
type DraftPick struct {
	FranchiseID string `json:"franchise"`
	Round       string `json:"round"`
	Pick        string `json:"pick"`      // pick number in the round
	PlayerID    string `json:"player"`    // empty until picked
	Timestamp   string `json:"timestamp"` // empty until picked
	Comments    string `json:"comments,omitempty"`
}

// Completed reports whether the pick has been made.
func (p DraftPick) Completed() bool {
	return p.Timestamp != ""
}

// Skipped reports whether the franchise passed on this pick.
func (p DraftPick) Skipped() bool {
	return p.PlayerID == SkipPlayerID
}

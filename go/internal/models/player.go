package models

// Player is an entry from the league service's player universe.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team,omitempty"` // pro team abbreviation
}

func (p Player) RecordID() string {
	return p.ID
}

package models

// Franchise is a fantasy team within a single league.
type Franchise struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name,omitempty"`
}

func (f Franchise) RecordID() string {
	return f.ID
}

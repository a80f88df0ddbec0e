package draft

import (
	"github.com/mcdev12/draftwatch/go/internal/models"
)

// ComputeDelta compares the draft slots currently reported by the league
// service against previously seen picks.
//
// Only completed picks are considered. A pick is new when its key is not in
// persisted. newPicks holds the new picks in the order they appear in current;
// merged is persisted with newPicks appended. persisted is not modified, and a
// nil persisted is treated as empty.
//
// Feeding merged back in with the same current yields an empty newPicks.
func ComputeDelta(current []models.DraftPick, persisted *State) (merged *State, newPicks *State) {
	if persisted == nil {
		persisted = NewState()
	}

	merged = persisted.Clone()
	newPicks = NewState()

	for _, p := range current {
		if !p.Completed() {
			continue
		}
		if persisted.Has(KeyOf(p)) {
			continue
		}
		if newPicks.Add(p) {
			merged.Add(p)
		}
	}

	return merged, newPicks
}

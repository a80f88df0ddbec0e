package draft

import (
	"encoding/json"
	"fmt"

	"github.com/mcdev12/draftwatch/go/internal/models"
)

// StateVersion is the version written into persisted state documents.
const StateVersion = 1

// State is an insertion-ordered set of completed picks keyed by PickKey.
// The zero value is not usable; call NewState.
type State struct {
	order []PickKey
	picks map[PickKey]models.DraftPick
}

func NewState() *State {
	return &State{picks: make(map[PickKey]models.DraftPick)}
}

// Len returns the number of picks held.
func (s *State) Len() int {
	return len(s.order)
}

// Has reports whether a pick with key k is held.
func (s *State) Has(k PickKey) bool {
	_, ok := s.picks[k]
	return ok
}

// Get returns the pick stored under k.
func (s *State) Get(k PickKey) (models.DraftPick, bool) {
	p, ok := s.picks[k]
	return p, ok
}

// Add appends p unless a pick with the same key is already held, in which
// case the held pick is left untouched. It reports whether p was added.
func (s *State) Add(p models.DraftPick) bool {
	k := KeyOf(p)
	if s.Has(k) {
		return false
	}
	s.order = append(s.order, k)
	s.picks[k] = p
	return true
}

// Keys returns the keys in insertion order.
func (s *State) Keys() []PickKey {
	keys := make([]PickKey, len(s.order))
	copy(keys, s.order)
	return keys
}

// Picks returns the picks in insertion order.
func (s *State) Picks() []models.DraftPick {
	picks := make([]models.DraftPick, 0, len(s.order))
	for _, k := range s.order {
		picks = append(picks, s.picks[k])
	}
	return picks
}

func (s *State) Clone() *State {
	clone := &State{
		order: make([]PickKey, len(s.order)),
		picks: make(map[PickKey]models.DraftPick, len(s.picks)),
	}
	copy(clone.order, s.order)
	for k, p := range s.picks {
		clone.picks[k] = p
	}
	return clone
}

type stateDocument struct {
	Version int                `json:"version"`
	Picks   []models.DraftPick `json:"picks"`
}

// MarshalJSON writes the picks as a list in insertion order. Keys are not
// stored; they are recomputed from the pick fields on load.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateDocument{Version: StateVersion, Picks: s.Picks()})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version != StateVersion {
		return fmt.Errorf("unsupported draft state version %d", doc.Version)
	}

	loaded := NewState()
	for _, p := range doc.Picks {
		loaded.Add(p)
	}
	*s = *loaded
	return nil
}

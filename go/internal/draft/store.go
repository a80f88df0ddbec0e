package draft

import (
	"context"
	"errors"
)

// ErrCorruptState is returned when a persisted state document exists but
// cannot be decoded. It is never silently replaced by an empty state, since
// that would announce every pick again.
var ErrCorruptState = errors.New("corrupt draft state")

// LoadResult is the outcome of loading persisted state. When Found is false
// nothing was persisted yet and State is empty.
type LoadResult struct {
	State *State
	Found bool
}

// Absent is the LoadResult for a store with nothing persisted.
func Absent() LoadResult {
	return LoadResult{State: NewState(), Found: false}
}

// Found wraps a loaded state.
func Found(s *State) LoadResult {
	return LoadResult{State: s, Found: true}
}

// StateStore persists the set of picks already announced for one league.
type StateStore interface {
	Load(ctx context.Context) (LoadResult, error)
	Save(ctx context.Context, state *State) error
	// Location names where the state lives, for logs and lock scoping.
	Location() string
}

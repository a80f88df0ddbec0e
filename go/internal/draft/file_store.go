package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mcdev12/draftwatch/go/internal/fsutil"
)

// FileStore keeps draft state in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Location() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (LoadResult, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Absent(), nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read draft state %s: %w", s.path, err)
	}

	state := NewState()
	if err := json.Unmarshal(b, state); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	return Found(state), nil
}

// Save replaces the file atomically.
func (s *FileStore) Save(ctx context.Context, state *State) error {
	if err := fsutil.WriteJSON(s.path, state); err != nil {
		return fmt.Errorf("failed to save draft state: %w", err)
	}
	return nil
}

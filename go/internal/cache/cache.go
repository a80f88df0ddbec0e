// Package cache keeps fetched league data on disk and decides, from the
// artifact's modification time, whether it is still fresh enough to reuse.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/internal/fsutil"
)

// DefaultTTL is how long a cached artifact is reused before it is refetched.
const DefaultTTL = 24 * time.Hour

// errEmptyArtifact marks an artifact holding a JSON null.
var errEmptyArtifact = errors.New("cached artifact is empty")

// FetchFunc produces fresh data for an artifact.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type Cache struct {
	clock clockwork.Clock
	ttl   time.Duration
}

// New creates a Cache. A zero ttl means DefaultTTL and a nil clock means the
// real clock.
func New(ttl time.Duration, clock clockwork.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{clock: clock, ttl: ttl}
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Stale reports whether the artifact at path must be refreshed: it is missing
// or its age is strictly greater than the TTL.
func (c *Cache) Stale(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	age := c.clock.Since(info.ModTime())
	return age > c.ttl, nil
}

// GetOrFetch returns the cached artifact at path when it is fresh. Otherwise
// it calls fetch, overwrites the artifact with the result and returns it.
// A fresh artifact that does not decode, or holds null, is treated like a stale one.
func GetOrFetch[T any](ctx context.Context, c *Cache, path string, fetch FetchFunc[T]) (T, error) {
	logger := log.Ctx(ctx).With().Str("artifact", path).Logger()
	var zero T

	stale, err := c.Stale(path)
	if err != nil {
		return zero, err
	}

	if !stale {
		data, err := readArtifact[T](path)
		if err == nil {
			logger.Debug().Msg("using cached data")
			return data, nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) && !errors.Is(err, errEmptyArtifact) {
			return zero, err
		}
		logger.Warn().Err(err).Msg("cached data is corrupt, refetching")
	}

	logger.Debug().Msg("fetching new data")
	data, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if err := fsutil.WriteJSON(path, data); err != nil {
		return zero, fmt.Errorf("failed to write cache: %w", err)
	}
	return data, nil
}

func readArtifact[T any](path string) (T, error) {
	var data T
	b, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("failed to read cache: %w", err)
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return data, fmt.Errorf("failed to decode cache %s: %w", path, errEmptyArtifact)
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return data, fmt.Errorf("failed to decode cache %s: %w", path, err)
	}
	return data, nil
}

package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/internal/fsutil"
)

// PathFor returns the lock file guarding the state file at statePath.
func PathFor(statePath string) string {
	return statePath + ".lock"
}

// FileGuard is an advisory file lock shared by every process on the host.
type FileGuard struct {
	path       string
	timeout    time.Duration
	retryDelay time.Duration
}

func NewFileGuard(path string, timeout time.Duration) *FileGuard {
	return &FileGuard{
		path:       path,
		timeout:    timeout,
		retryDelay: DefaultRetryDelay,
	}
}

func (g *FileGuard) Scope() string {
	return g.path
}

func (g *FileGuard) Acquire(ctx context.Context) (ReleaseFunc, error) {
	if err := fsutil.EnsureParentDirs(g.path); err != nil {
		return nil, err
	}

	waitCtx, cancel := waitContext(ctx, g.timeout)
	defer cancel()

	fl := flock.New(g.path)
	locked, err := fl.TryLockContext(waitCtx, g.retryDelay)
	if err != nil {
		if timedOut(ctx, waitCtx) {
			return nil, fmt.Errorf("%w: %s after %s", ErrLocked, g.path, g.timeout)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", g.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, g.path)
	}

	log.Ctx(ctx).Debug().Str("lock", g.path).Msg("acquired lock")

	return func() error {
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock %s: %w", g.path, err)
		}
		log.Ctx(ctx).Debug().Str("lock", g.path).Msg("released lock")
		return nil
	}, nil
}

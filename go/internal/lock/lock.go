// Package lock serializes runs that target the same draft state. The file
// guard locks a file next to the draft-state file and the redis guard locks a
// key next to the state key.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrLocked is returned when the lock is still held by another run after the
// configured wait.
var ErrLocked = errors.New("still locked by another run")

const (
	// DefaultTimeout bounds how long Acquire waits for a held lock.
	DefaultTimeout = 10 * time.Minute
	// DefaultRetryDelay is the polling interval while waiting.
	DefaultRetryDelay = 250 * time.Millisecond
)

// ReleaseFunc releases an acquired lock.
type ReleaseFunc func() error

// Guard is a cross-process exclusive lock.
type Guard interface {
	// Acquire blocks until the lock is held, ctx is done, or the guard's
	// timeout passes, in which case the error wraps ErrLocked.
	Acquire(ctx context.Context) (ReleaseFunc, error)
	// Scope names what the lock protects.
	Scope() string
}

// With runs fn while holding g and releases it on every return path,
// including panics. A release error is returned only when fn succeeded.
func With(ctx context.Context, g Guard, fn func(ctx context.Context) error) (err error) {
	release, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if relErr := release(); relErr != nil && err == nil {
			err = relErr
		}
	}()
	return fn(ctx)
}

// waitContext applies the guard timeout to ctx.
func waitContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// timedOut reports whether waitCtx ended because of the guard timeout rather
// than the caller cancelling parent.
func timedOut(parent, waitCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded)
}

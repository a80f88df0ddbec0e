package notify

import (
	"context"

	"github.com/mcdev12/draftwatch/go/internal/draft/events"
)

// Notification is the announcement of one run's new picks. Text is the
// rendered chat message; Picks carries the same picks in structured form.
type Notification struct {
	LeagueID   string
	LeagueName string
	Text       string
	Picks      []events.PickMadePayload
}

// Sink delivers a notification somewhere. Delivery is all or nothing.
type Sink interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// RetryPolicy is implemented by sinks whose delivery is not idempotent. Only
// errors it reports as retryable are retried.
type RetryPolicy interface {
	Retryable(err error) bool
}

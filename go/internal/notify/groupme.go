package notify

import (
	"context"
	"errors"
	"net/http"
	"syscall"

	"github.com/mcdev12/draftwatch/go/clients"
	"github.com/mcdev12/draftwatch/go/clients/groupme_client"
)

// GroupMeSink posts the rendered text through a GroupMe bot.
type GroupMeSink struct {
	client *groupme_client.GroupMeClient
	botID  string
}

func NewGroupMeSink(client *groupme_client.GroupMeClient, botID string) *GroupMeSink {
	return &GroupMeSink{client: client, botID: botID}
}

func (s *GroupMeSink) Name() string {
	return "groupme"
}

func (s *GroupMeSink) Send(ctx context.Context, n Notification) error {
	return s.client.PostBotMessage(ctx, s.botID, n.Text)
}

// Retryable reports whether a failed post certainly did not reach GroupMe.
// Bot posts are not deduplicated, so a timeout is not retried.
func (s *GroupMeSink) Retryable(err error) bool {
	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

package groupme_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/draftwatch/go/clients"
)

type GroupMeClient struct {
	*clients.BaseClient
}

func NewGroupMeClient(baseURL string) *GroupMeClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &GroupMeClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// PostBotMessage posts text to the group the bot belongs to.
func (c *GroupMeClient) PostBotMessage(ctx context.Context, botID, text string) error {
	form := url.Values{}
	form.Set(BotIDField, botID)
	form.Set(TextField, text)

	if _, err := c.PostForm(ctx, BotPostEndpoint, form); err != nil {
		return fmt.Errorf("failed to post bot message: %w", err)
	}
	return nil
}

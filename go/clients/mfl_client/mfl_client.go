package mfl_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mcdev12/draftwatch/go/clients"
)

// ErrAPI wraps error documents the export API returns with a 200 status.
var ErrAPI = errors.New("mfl api error")

type Config struct {
	BaseURL   string
	Year      string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

type MFLClient struct {
	*clients.BaseClient
	year   string
	apiKey string
}

func NewMFLClient(cfg Config) *MFLClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	year := cfg.Year
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := &MFLClient{
		BaseClient: clients.NewBaseClient(baseURL),
		year:       year,
		apiKey:     cfg.APIKey,
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	client.SetHeader(UserAgentHeader, userAgent)
	client.SetHeader(AcceptHeader, JsonContentType)

	return client
}

// export calls the export endpoint for exportType, adding the JSON flag and
// the API key when one is configured.
func (c *MFLClient) export(ctx context.Context, exportType string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set(TypeParam, exportType)
	params.Set(JSONParam, "1")
	if c.apiKey != "" {
		params.Set(APIKeyParam, c.apiKey)
	}

	endpoint := fmt.Sprintf(ExportEndpoint, c.year) + "?" + params.Encode()
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", exportType, err)
	}

	if err := checkAPIError(body); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", exportType, err)
	}

	return body, nil
}

func checkAPIError(body []byte) error {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		return fmt.Errorf("%w: %s", ErrAPI, string(envelope.Error))
	}
	return nil
}

func leagueParams(leagueID string) url.Values {
	return url.Values{LeagueParam: []string{leagueID}}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
)

// SendUpdatePath is where the notification endpoint is mounted.
const SendUpdatePath = "/api/notifications/send-update"

// HTTPClient forwards updates to a send-update endpoint, usually this
// service's own public address.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient posts to baseURL + SendUpdatePath. httpClient may be nil.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + SendUpdatePath,
		http:     httpClient,
	}
}

type sendUpdateResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// SendUpdate posts u and returns the summary the endpoint reports.
// Non-2xx answers are failures.
func (c *HTTPClient) SendUpdate(ctx context.Context, u Update) (string, error) {
	body, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperr.NotConfigured("relay", fmt.Sprintf("bad base url: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Upstream("relay", err)
	}
	defer resp.Body.Close()

	var out sendUpdateResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &apperr.UpstreamError{
			Service: "relay",
			Message: out.Error,
			Err:     fmt.Errorf("send-update answered %s", resp.Status),
		}
	}
	return out.Summary, nil
}

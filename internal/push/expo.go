// Package push provides an HTTP client for the Expo push notification service.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Message is a single push notification addressed to one device token.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender dispatches push notifications. Implementations must be safe for
// sequential reuse; the notifier calls Send once per user per period.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ExpoClient sends notifications through the Expo push API.
type ExpoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewExpoClient creates a new Expo push client. accessToken may be empty for
// projects without enhanced push security.
func NewExpoClient(baseURL, accessToken string, httpClient *http.Client) *ExpoClient {
	return &ExpoClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// ticket is a per-message delivery receipt in the Expo response.
type ticket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

// Send delivers a single notification. A non-2xx response or an error
// ticket from the provider is returned as an error; the provider is never
// retried.
func (c *ExpoClient) Send(ctx context.Context, msg Message) error {
	if msg.Sound == "" {
		msg.Sound = "default"
	}

	jsonBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending push notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sending push notification: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Data ticket `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding push response: %w", err)
	}
	if result.Data.Status == "error" {
		return fmt.Errorf("push provider rejected message: %s (%s)", result.Data.Message, result.Data.Details.Error)
	}
	return nil
}

// Package vision provides an HTTP client for the external capture AI
// provider. The provider does all receipt OCR and voice transcription; this
// package only shuttles the uploaded bytes to it and reshapes the JSON
// response into expense draft fields.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// CaptureResult holds the expense draft fields extracted by the provider.
type CaptureResult struct {
	Amount       int64     `json:"amount"` // cents
	Description  string    `json:"description"`
	Merchant     string    `json:"merchant,omitempty"`
	CategoryHint string    `json:"category_hint,omitempty"`
	Date         time.Time `json:"date"`
}

// Parser extracts expense drafts from receipt images and voice memos.
type Parser interface {
	ParseReceipt(ctx context.Context, image io.Reader, filename string) (*CaptureResult, error)
	ParseVoiceMemo(ctx context.Context, audio io.Reader, filename string) (*CaptureResult, error)
}

// Client talks to the capture provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new capture provider client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// providerResponse is the provider's wire format. Amounts come back as
// decimal dollars and dates as ISO 8601 calendar dates.
type providerResponse struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// ParseReceipt uploads a receipt image and returns the extracted draft.
func (c *Client) ParseReceipt(ctx context.Context, image io.Reader, filename string) (*CaptureResult, error) {
	return c.parse(ctx, "/parse/receipt", image, filename)
}

// ParseVoiceMemo uploads a voice memo and returns the extracted draft.
func (c *Client) ParseVoiceMemo(ctx context.Context, audio io.Reader, filename string) (*CaptureResult, error) {
	return c.parse(ctx, "/parse/voice", audio, filename)
}

func (c *Client) parse(ctx context.Context, path string, file io.Reader, filename string) (*CaptureResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copying file into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling capture provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capture provider returned status %d", resp.StatusCode)
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding capture response: %w", err)
	}

	return reshape(parsed)
}

// reshape converts the provider's wire format into a CaptureResult.
func reshape(p providerResponse) (*CaptureResult, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("provider returned non-positive amount %v", p.Amount)
	}

	result := &CaptureResult{
		Amount:       int64(math.Round(p.Amount * 100)),
		Description:  p.Description,
		Merchant:     p.Merchant,
		CategoryHint: p.Category,
	}
	if result.Description == "" {
		result.Description = p.Merchant
	}
	if result.Description == "" {
		return nil, fmt.Errorf("provider returned no description")
	}

	if p.Date != "" {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("provider returned unparseable date %q: %w", p.Date, err)
		}
		result.Date = date
	} else {
		result.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	return result, nil
}

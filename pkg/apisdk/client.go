package apisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the Vantage authentication API. The zero value is
// not usable; construct one with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// APIKey, when set, is sent as the X-API-Key header on every request.
	// Machine callers use this instead of a bearer token.
	APIKey string
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into out. A nil out discards the response body after error
// checking. The bearer token is optional; when empty no Authorization
// header is set.
func (c *Client) doJSON(ctx context.Context, method, path, bearer string, in, out any, expectedStatus int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	return decodeJSON(resp, out, expectedStatus)
}

func (c *Client) postJSON(ctx context.Context, path, bearer string, in, out any, expectedStatus int) error {
	return c.doJSON(ctx, http.MethodPost, path, bearer, in, out, expectedStatus)
}

func (c *Client) getJSON(ctx context.Context, path, bearer string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, bearer, nil, out, http.StatusOK)
}

// decodeJSON decodes a JSON response into target. Non-2xx responses are
// converted into a typed *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

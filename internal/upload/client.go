// Package upload sends mod files to the upload endpoint and attaches the
// returned content to catalog entries.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meur/modcatalog/internal/models"
)

// Client talks to the upload endpoint
type Client struct {
	endpoint  string
	transport *http.Transport
	http      *http.Client
}

// NewClient creates a client for endpoint. A zero timeout means no
// client-side deadline beyond the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    4,
		IdleConnTimeout: 90 * time.Second,
	}
	return &Client{
		endpoint:  endpoint,
		transport: transport,
		http:      &http.Client{Transport: transport, Timeout: timeout},
	}
}

// Send posts one file and returns the endpoint's reply.
// Transport errors and non-2xx statuses are returned as errors; a reply with
// Uploaded=false is not an error at this level.
func (c *Client) Send(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload endpoint returned status %d", resp.StatusCode)
	}

	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &out, nil
}

// Close releases idle connections
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

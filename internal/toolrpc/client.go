// Package toolrpc speaks the wire protocol tool servers expose: a single
// JSON POST to /tool on the server's local port, body {"method": ...,
// "params": ...}, JSON result back. The client does not interpret
// tool-specific result shapes.
package toolrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one round-trip to a tool server. A call that
// exceeds it is abandoned and reported as an error; the server process is
// left running.
const DefaultTimeout = 10 * time.Second

// errBodyLimit bounds how much of an error response body is captured.
const errBodyLimit = 4096

// Client issues tool calls to servers on the local loopback interface.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client. A zero timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// request is the wire format tool servers accept.
type request struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// Call invokes a tool on the server listening on port and returns the
// decoded JSON result unmodified. requestID is attached as X-Request-Id
// for log correlation across the process boundary.
func (c *Client) Call(ctx context.Context, port int, tool string, params map[string]any, requestID string) (any, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(request{Method: tool, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d/tool", port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the backend rejects the session token.
var ErrUnauthorized = errors.New("unauthorized")

// Row is one record of an admin collection, decoded generically.
type Row map[string]any

// HTTPClient makes REST calls to the CMS admin API.
type HTTPClient struct {
	baseURL string
	session *Session
	client  *http.Client
}

// NewHTTPClient creates a client targeting baseURL (e.g. "http://localhost:8000/api/v1").
func NewHTTPClient(baseURL string, session *Session, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		client:  &http.Client{Timeout: timeout},
	}
}

// List fetches a collection such as /users or /banks.
func (c *HTTPClient) List(ctx context.Context, path string) ([]Row, error) {
	var out []Row
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me fetches /users/me for the signed-in admin.
func (c *HTTPClient) Me(ctx context.Context) (Row, error) {
	var out Row
	if err := c.get(ctx, "/users/me", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post sends in as a JSON body to path and decodes the response into out.
func (c *HTTPClient) Post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("POST %s: encode: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.session.Authorize(req.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w (%d)", method, path, ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

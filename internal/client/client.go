// Package client is a typed Go client for the salesflow REST API. It mirrors
// the /api/v1 surface one method per operation, decoding into the shared DTO
// structs. Failed calls return a *APIError carrying the backend's problem
// detail when the response body has one, or a per-operation fallback message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// problemBody matches the RFC 7807 shape the backend emits.
type problemBody struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	apiKey     string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithAPIKey sets the x-api-key header sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues the request and decodes a 2xx body into out (when non-nil). On a
// non-2xx status it returns a *APIError with the backend's detail, falling
// back to the given message when the body carries none.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp, fallback)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

func (c *Client) apiError(resp *http.Response, fallback string) error {
	apiErr := &APIError{Status: resp.StatusCode, Detail: fallback}
	var problem problemBody
	if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil {
		if problem.Detail != "" {
			apiErr.Detail = problem.Detail
		} else if problem.Title != "" {
			apiErr.Detail = problem.Title
		}
	}
	return apiErr
}

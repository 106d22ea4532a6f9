package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL points at the local development backend.
	DefaultBaseURL = "http://localhost:8000"

	defaultTimeout = 10 * time.Second

	// SessionExpiredNotice is surfaced once per 401 response. The client does
	// not clear the stored session here; that remains the caller's call.
	SessionExpiredNotice = "Session has expired. Please log in again."
)

// TokenFunc supplies the bearer token attached to outgoing requests. An empty
// return sends the request unauthenticated.
type TokenFunc func() string

// NoticeFunc receives user-visible notices raised by the client.
type NoticeFunc func(message string)

// Client is the single shared gateway to the remote API. Every request goes
// through do, which attaches the bearer credential and watches for expiry.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	expired NoticeFunc
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the fixed request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource installs the bearer token lookup, typically backed by the
// persistent session store.
func WithTokenSource(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// WithSessionExpiredNotice installs the handler invoked once per 401 response.
func WithSessionExpiredNotice(fn NoticeFunc) Option {
	return func(c *Client) { c.expired = fn }
}

// New builds a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// postMultipart uploads a single file part under field.
func (c *Client) postMultipart(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.expired != nil {
		c.expired(SessionExpiredNotice)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	serverErr := &ServerError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var payload errorPayload
		if json.Unmarshal(raw, &payload) == nil {
			serverErr.Detail = payload.detail()
		}
	}
	if serverErr.Detail == "" {
		serverErr.Detail = GenericErrorMessage
	}
	return serverErr
}

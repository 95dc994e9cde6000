// Package client talks to the wanderlist HTTP API and classifies every
// outcome into the destination error kinds.
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

	"github.com/okian/wanderlist/internal/domain/destination"
	"github.com/okian/wanderlist/pkg/logger"
)

const (
	destinationsPath = "/api/destinations"
	maxErrorBody     = 4 << 10
)

// Client is a wanderlist API client.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", ErrBadBaseURL, baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List returns every store-resident destination.
func (c *Client) List(ctx context.Context) ([]destination.Destination, error) {
	var out []destination.Destination
	if err := c.do(ctx, http.MethodGet, destinationsPath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []destination.Destination{}
	}
	return out, nil
}

// Get returns one store-resident destination.
func (c *Client) Get(ctx context.Context, id string) (destination.Destination, error) {
	var out destination.Destination
	err := c.do(ctx, http.MethodGet, itemPath(id), nil, &out)
	return out, err
}

// Create submits a new destination.
func (c *Client) Create(ctx context.Context, f destination.Fields) (destination.Destination, error) {
	var out destination.Destination
	err := c.do(ctx, http.MethodPost, destinationsPath, f, &out)
	return out, err
}

// Update replaces the writable fields of a store-resident destination.
func (c *Client) Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error) {
	var out destination.Destination
	err := c.do(ctx, http.MethodPut, itemPath(id), f, &out)
	return out, err
}

// Delete removes a store-resident destination.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return destinationsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %w", destination.ErrInvalid, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", destination.ErrFault, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A caller abort is not an outage.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug(ctx, "request failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", destination.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug(ctx, "request done",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", destination.ErrFault, err)
	}
	return nil
}

// classify maps a non-2xx response onto an error kind.
func classify(resp *http.Response) error {
	serr := &StatusError{Code: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if json.Unmarshal(raw, &body) == nil {
		serr.Message = body.Message
		serr.Details = body.Errors
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		kind = destination.ErrUnavailable
	case http.StatusNotFound:
		kind = destination.ErrNotFound
	case http.StatusBadRequest:
		kind = destination.ErrInvalid
	default:
		kind = destination.ErrFault
	}
	return fmt.Errorf("%w: %w", kind, serr)
}

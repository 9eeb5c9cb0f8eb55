package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client wraps an http.Client with a site base URL, a shared User-Agent and
// per-request timeouts. All page and API fetches in the pipeline go through it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func New(baseURL, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger.With("component", "fetch"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolve resolves a possibly-relative URL against the client's base URL.
// Unparseable input is returned unchanged.
func (c *Client) Resolve(rawURL string) string {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return rawURL
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return base.ResolveReference(ref).String()
}

// Get fetches the given URL (resolved against the base) and returns the
// response body. Non-2xx statuses are errors. Extra headers are applied on
// top of the shared User-Agent.
func (c *Client) Get(ctx context.Context, rawURL string, timeout time.Duration, headers map[string]string) (string, error) {
	absolute := c.Resolve(rawURL)

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, absolute, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, absolute)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	c.logger.Debug("fetched", "url", absolute, "bytes", len(body))
	return string(body), nil
}

package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thermolineco/thermoline/pkg/logger"
)

const (
	historyPath = "/history"
	streamPath  = "/stream"

	// defaultHistoryTimeout bounds the one-shot batch request.
	defaultHistoryTimeout = 10 * time.Second
)

// Client talks to the sensor service's batch endpoint. The streaming
// endpoint has its own lifecycle and is consumed by pkg/stream; Client only
// resolves its URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client for the sensor service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHistoryTimeout},
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StreamURL returns the full URL of the streaming endpoint.
func (c *Client) StreamURL() string {
	return c.baseURL + streamPath
}

// FetchHistory performs one blocking request against the history endpoint
// and returns the complete batch of readings.
func (c *Client) FetchHistory(ctx context.Context) ([]Reading, error) {
	url := c.baseURL + historyPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building history request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("history endpoint returned status %d", resp.StatusCode)
	}

	var readings []Reading
	if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
		return nil, fmt.Errorf("decoding history response: %w", err)
	}

	c.logger.Debug("fetched history batch", "url", url, "count", len(readings))

	return readings, nil
}

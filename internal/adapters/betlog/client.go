// Package betlog queries the upstream bet-summary API for a player's
// live wagering total inside a date range.
//
// Deployments expose one of two shapes: an aggregate per-day summary or
// a paginated list of bet-detail rows. The client supports both and
// reduces either to a single valid-bet figure.
package betlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

// Mode selects which upstream response shape the deployment serves.
type Mode string

const (
	// ModeSummary is the per-day aggregate shape.
	ModeSummary Mode = "summary"
	// ModeDetail is the paginated bet-detail list shape.
	ModeDetail Mode = "detail"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultPageSize = 2500 // max page size keeps the request count down
)

var defaultGameTypes = []int{1, 2, 3, 4}

// Summary is the reduced result of a live query. Success false means the
// upstream answered but had no data for the player; that is not an error.
type Summary struct {
	Success       bool    `json:"success"`
	TotalValidBet float64 `json:"total_valid_bet"`
	Account       string  `json:"account"`
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithMode selects the upstream response shape.
func WithMode(mode Mode) Option {
	return func(c *Client) {
		if mode == ModeSummary || mode == ModeDetail {
			c.mode = mode
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithPageSize sets the detail-mode page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithGameTypes sets the detail-mode game type filter.
func WithGameTypes(types []int) Option {
	return func(c *Client) {
		if len(types) > 0 {
			c.gameTypes = types
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client talks to one bet-summary API deployment through its proxy base URL.
type Client struct {
	baseURL    string
	mode       Mode
	httpClient *http.Client
	pageSize   int
	gameTypes  []int
	log        logger.Logger
}

// NewClient creates a client for the proxy at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		mode:       ModeSummary,
		httpClient: &http.Client{Timeout: defaultTimeout},
		pageSize:   defaultPageSize,
		gameTypes:  defaultGameTypes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	return c
}

// PlayerValidBet fetches the player's total valid bet between startTime
// and endTime (formatted "2006-01-02 15:04:05"). Transport failures and
// non-2xx statuses are errors; an upstream answer with no data for the
// player reduces to Summary{Success: false}.
func (c *Client) PlayerValidBet(ctx context.Context, playerID, startTime, endTime string) (Summary, error) {
	metrics.RecordBetlogFetch()

	var (
		s   Summary
		err error
	)
	if c.mode == ModeDetail {
		s, err = c.fetchDetail(ctx, playerID, startTime, endTime)
	} else {
		s, err = c.fetchSummary(ctx, playerID, startTime, endTime)
	}
	if err != nil {
		metrics.RecordBetlogFetchError()
		return Summary{}, err
	}
	return s, nil
}

// get issues a GET with query params and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	q := url.Values{}
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// post issues a POST with a JSON body and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

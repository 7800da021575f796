// Package sheets fetches CSV-exported spreadsheet tabs and parses them
// into raw bet records.
package sheets

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

const (
	defaultBaseURL = "https://docs.google.com"
	defaultTimeout = 15 * time.Second
	recordFields   = 2

	// maxLineBytes bounds a single CSV line. Exports with a ragged but
	// plausible line still parse; anything larger fails the fetch.
	maxLineBytes = 1 << 20
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the spreadsheet host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
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

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client fetches CSV exports for one spreadsheet.
type Client struct {
	baseURL    string
	sheetID    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a client bound to sheetID.
func NewClient(sheetID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		sheetID:    sheetID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	return c
}

// ExportURL builds the CSV export URL for a tab.
func (c *Client) ExportURL(gid int64) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%d", c.baseURL, c.sheetID, gid)
}

// FetchWeek downloads one week's tab and parses it into bet records.
// A non-2xx response is an ErrFetch carrying the status code.
func (c *Client) FetchWeek(ctx context.Context, gid int64) ([]model.BetRecord, error) {
	start := time.Now()
	metrics.RecordSheetFetch()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ExportURL(gid), nil)
	if err != nil {
		metrics.RecordSheetFetchError()
		return nil, fmt.Errorf("build export request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordSheetFetchError()
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordSheetFetchError()
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}

	records, err := c.parseWeekData(ctx, resp.Body)
	if err != nil {
		metrics.RecordSheetFetchError()
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	metrics.RecordSheetFetchLatency(float64(time.Since(start).Milliseconds()))

	c.log.Debug(ctx, "fetched week data",
		logger.Int("gid", int(gid)),
		logger.Int("records", len(records)),
	)
	return records, nil
}

// parseWeekData reads CSV lines, discards the header row and keeps rows
// whose first two fields parse as (playerID, betAmount). Short, empty or
// non-numeric rows are skipped silently; they are data-entry noise, not
// errors. A scanner failure mid-body is an error: a truncated export
// must never pass for a complete snapshot.
func (c *Client) parseWeekData(ctx context.Context, body io.Reader) ([]model.BetRecord, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	var records []model.BetRecord
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header row
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := parseCSVLine(text)
		if len(fields) < recordFields || fields[0] == "" || fields[1] == "" {
			continue
		}

		amount, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			c.log.Debug(ctx, "skipping malformed bet amount",
				logger.Int("line", line),
				logger.String("value", fields[1]),
			)
			continue
		}

		records = append(records, model.BetRecord{
			PlayerID:  fields[0],
			BetAmount: amount,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}
	return records, nil
}

// Package stooq provides a client for the free Stooq daily CSV feed.
// It is the fallback price source: slower and occasionally stale, but
// available without an API key.
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://stooq.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 2 // requests per second; Stooq throttles aggressively
)

// Client implements the PriceSource interface against Stooq's historical
// CSV download endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Stooq client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// stooqSymbol maps a plain US ticker to Stooq's notation (lowercase with
// a market suffix). Tickers that already carry a suffix pass through.
func stooqSymbol(ticker string) string {
	s := strings.ToLower(strings.TrimSpace(ticker))
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".us"
}

// Name identifies this source in logs and cache diagnostics.
func (c *Client) Name() string { return "stooq" }

// FetchClose returns the closing price for ticker on date.
func (c *Client) FetchClose(ctx context.Context, ticker string, date time.Time) (float64, error) {
	bars, err := c.FetchDaily(ctx, ticker, date, date)
	if err != nil {
		return 0, err
	}

	day := date.Format("2006-01-02")
	for _, bar := range bars {
		if bar.Date.Format("2006-01-02") == day {
			return bar.Close, nil
		}
	}
	return 0, fmt.Errorf("no bar for %s on %s", ticker, day)
}

// FetchDaily retrieves daily bars for [from, to] inclusive.
func (c *Client) FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]models.EODBar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("s", stooqSymbol(ticker))
	params.Set("d1", from.Format("20060102"))
	params.Set("d2", to.Format("20060102"))
	params.Set("i", "d")

	reqURL := fmt.Sprintf("%s/q/d/l/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("ticker", ticker).Str("from", from.Format("2006-01-02")).Str("to", to.Format("2006-01-02")).Msg("Stooq CSV request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned status %d for %s", resp.StatusCode, ticker)
	}

	return parseCSV(resp.Body, ticker)
}

// parseCSV decodes Stooq's "Date,Open,High,Low,Close,Volume" payload.
// Stooq answers unknown symbols with a plain "No data" body, which the
// CSV reader surfaces as a single short record.
func parseCSV(r io.Reader, ticker string) ([]models.EODBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data for %s", ticker)
	}

	bars := make([]models.EODBar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(rec[1], 64)
		high, _ := strconv.ParseFloat(rec[2], 64)
		low, _ := strconv.ParseFloat(rec[3], 64)
		closePrice, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			continue
		}
		var volume int64
		if len(rec) >= 6 {
			volume, _ = strconv.ParseInt(rec[5], 10, 64)
		}
		bars = append(bars, models.EODBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return bars, nil
}

// Ensure Client implements PriceSource
var _ interfaces.PriceSource = (*Client)(nil)

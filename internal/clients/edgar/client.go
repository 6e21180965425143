// Package edgar provides a client for the SEC EDGAR filings index.
// Lookups run ticker → CIK → submissions; the CIK table is fetched once
// and cached in-process. The SEC requires a descriptive User-Agent with
// contact details on every request.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

const (
	DefaultBaseURL     = "https://www.sec.gov"
	DefaultDataBaseURL = "https://data.sec.gov"
	DefaultUserAgent   = "folio/dev admin@example.com"
	DefaultTimeout     = 30 * time.Second
	DefaultRateLimit   = 5 // SEC fair-access limit is 10 req/s
)

// Client implements the FilingsClient interface.
type Client struct {
	baseURL     string
	dataBaseURL string
	userAgent   string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter

	mu     sync.Mutex
	cikMap map[string]string // ticker -> zero-padded CIK
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL for www.sec.gov endpoints
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithDataBaseURL sets the base URL for data.sec.gov endpoints
func WithDataBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.dataBaseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
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

// NewClient creates a new EDGAR client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		dataBaseURL: DefaultDataBaseURL,
		userAgent:   DefaultUserAgent,
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

// get performs a rate-limited GET with the mandatory User-Agent.
func (c *Client) get(ctx context.Context, reqURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", reqURL).Msg("EDGAR request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("EDGAR returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// cikForTicker resolves a ticker to its zero-padded 10-digit CIK,
// loading the SEC's company ticker table on first use.
func (c *Client) cikForTicker(ctx context.Context, ticker string) (string, error) {
	ticker = models.NormalizeTicker(ticker)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cikMap == nil {
		var table map[string]struct {
			CIK    int64  `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := c.get(ctx, c.baseURL+"/files/company_tickers.json", &table); err != nil {
			return "", fmt.Errorf("failed to load CIK table: %w", err)
		}

		c.cikMap = make(map[string]string, len(table))
		for _, row := range table {
			c.cikMap[models.NormalizeTicker(row.Ticker)] = fmt.Sprintf("%010d", row.CIK)
		}
		c.logger.Debug().Int("entries", len(c.cikMap)).Msg("CIK table loaded")
	}

	cik, ok := c.cikMap[ticker]
	if !ok {
		return "", fmt.Errorf("CIK not found for ticker %s", ticker)
	}
	return cik, nil
}

// submissionsResponse mirrors the subset of the submissions API we read.
// The recent filings arrays are parallel: index i across all of them
// describes one filing.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// ListFilings returns filings for a ticker, newest first.
func (c *Client) ListFilings(ctx context.Context, ticker string, formTypes []string, count int) ([]models.Filing, error) {
	cik, err := c.cikForTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var resp submissionsResponse
	if err := c.get(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBaseURL, cik), &resp); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(formTypes))
	for _, f := range formTypes {
		wanted[strings.ToUpper(strings.TrimSpace(f))] = true
	}

	recent := resp.Filings.Recent
	filings := make([]models.Filing, 0, count)
	for i := range recent.Form {
		form := recent.Form[i]
		if len(wanted) > 0 && !wanted[strings.ToUpper(form)] {
			continue
		}

		filedDate, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil {
			continue
		}
		var reportDate time.Time
		if i < len(recent.ReportDate) && recent.ReportDate[i] != "" {
			reportDate, _ = time.Parse("2006-01-02", recent.ReportDate[i])
		}

		// Document URL: accession number without dashes forms the directory
		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		docURL := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
			c.baseURL, strings.TrimLeft(cik, "0"), accession, recent.PrimaryDocument[i])

		filings = append(filings, models.Filing{
			FormType:   form,
			FiledDate:  filedDate,
			ReportDate: reportDate,
			URL:        docURL,
		})
		if count > 0 && len(filings) >= count {
			break
		}
	}

	sort.SliceStable(filings, func(i, j int) bool {
		return filings[i].FiledDate.After(filings[j].FiledDate)
	})

	return filings, nil
}

// Ensure Client implements FilingsClient
var _ interfaces.FilingsClient = (*Client)(nil)

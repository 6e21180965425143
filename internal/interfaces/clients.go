// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/foliotrack/folio/internal/models"
)

// PriceSource provides a closing price for a ticker on a trading day.
// Implementations are stateless and safe for concurrent use; transport,
// parsing and provider quirks stay behind this boundary.
type PriceSource interface {
	// Name identifies the source in logs and quotes
	Name() string

	// FetchClose returns the closing price for ticker on date.
	// A source with no data for that day returns an error; the caller
	// decides whether to fall back to another source or another day.
	FetchClose(ctx context.Context, ticker string, date time.Time) (float64, error)
}

// FilingsClient provides access to the SEC EDGAR filings index
type FilingsClient interface {
	// ListFilings returns filings for a ticker, newest first. formTypes
	// filters by form (e.g. "10-K", "10-Q"); empty means all forms.
	ListFilings(ctx context.Context, ticker string, formTypes []string, count int) ([]models.Filing, error)
}

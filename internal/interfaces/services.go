package interfaces

import (
	"context"
	"time"

	"github.com/foliotrack/folio/internal/models"
)

// PortfolioService manages portfolios and computes valuations
type PortfolioService interface {
	// CreatePortfolio creates an empty named portfolio
	CreatePortfolio(ctx context.Context, name string) (*models.Portfolio, error)

	// GetPortfolio retrieves a portfolio by name
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)

	// ListPortfolios returns all portfolio names
	ListPortfolios(ctx context.Context) ([]string, error)

	// DeletePortfolio removes a portfolio and its price cache
	DeletePortfolio(ctx context.Context, name string) error

	// Purchase records a buy. The purchase price is resolved from market
	// data for the purchase date; if no price can be resolved the
	// portfolio is left unchanged.
	Purchase(ctx context.Context, name, ticker string, shares int64, date time.Time) (*models.Portfolio, error)

	// RemoveHolding deletes a position outright
	RemoveHolding(ctx context.Context, name, ticker string) (*models.Portfolio, error)

	// ValueAt computes the portfolio value on a date. Holdings acquired
	// after the date contribute zero without a warning; held tickers
	// that cannot be priced contribute zero with a warning.
	ValueAt(ctx context.Context, name string, date time.Time) (*models.Valuation, error)

	// Summary computes the current per-holding and aggregate report
	Summary(ctx context.Context, name string) (*models.PortfolioReport, error)

	// YearlySeries computes year-end values from the earliest
	// acquisition year through today
	YearlySeries(ctx context.Context, name string) ([]models.YearlyValue, error)

	// DailySeries computes a business-day value series for charting
	DailySeries(ctx context.Context, name string) ([]models.SeriesPoint, error)
}

// FilingsService provides SEC filings lookups
type FilingsService interface {
	List(ctx context.Context, ticker string, formTypes []string, count int) ([]models.Filing, error)
}

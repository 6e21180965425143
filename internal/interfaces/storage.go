package interfaces

import (
	"context"

	"github.com/foliotrack/folio/internal/models"
)

// PortfolioStore persists portfolios
type PortfolioStore interface {
	// GetPortfolio retrieves a portfolio by name
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)

	// SavePortfolio creates or updates a portfolio
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error

	// DeletePortfolio removes a portfolio by name
	DeletePortfolio(ctx context.Context, name string) error

	// ListPortfolios returns all portfolio names, sorted
	ListPortfolios(ctx context.Context) ([]string, error)

	// Close releases the underlying store
	Close() error
}

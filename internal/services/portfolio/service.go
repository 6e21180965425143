// Package portfolio provides portfolio management and valuation services
package portfolio

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
	"github.com/foliotrack/folio/internal/services/pricing"
)

// tickerPattern accepts exchange symbols like AAPL, BRK.B or BHP.AU.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,8}(\.[A-Z]{1,4})?$`)

// Service implements PortfolioService. Each portfolio owns one price
// resolver, so its cache lives and dies with the portfolio and tests
// stay hermetic.
type Service struct {
	store   interfaces.PortfolioStore
	sources []interfaces.PriceSource
	logger  *common.Logger
	pricing common.PricingConfig
	now     func() time.Time // injectable clock for testing

	mu        sync.Mutex
	resolvers map[string]*pricing.Resolver // keyed by portfolio name
}

// NewService creates a new portfolio service. Sources are the price
// fallback chain in priority order (primary first).
func NewService(store interfaces.PortfolioStore, logger *common.Logger, cfg common.PricingConfig, sources ...interfaces.PriceSource) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Service{
		store:     store,
		sources:   sources,
		logger:    logger,
		pricing:   cfg,
		now:       time.Now,
		resolvers: make(map[string]*pricing.Resolver),
	}
}

// resolverFor returns the portfolio's resolver, creating it on first use.
func (s *Service) resolverFor(name string) *pricing.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resolvers[name]
	if !ok {
		r = pricing.NewResolver(pricing.NewCache(), s.logger, s.pricing.LookbackDays, s.sources...)
		s.resolvers[name] = r
	}
	return r
}

// dropResolver discards a portfolio's resolver and cache.
func (s *Service) dropResolver(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resolvers, name)
}

// CreatePortfolio creates an empty named portfolio.
func (s *Service) CreatePortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: portfolio name is required", ErrInvalidInput)
	}
	if existing, err := s.store.GetPortfolio(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrPortfolioExists, name)
	}

	now := s.now()
	p := &models.Portfolio{
		ID:        uuid.NewString(),
		Name:      name,
		Holdings:  make(map[string]models.Holding),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SavePortfolio(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("name", name).Msg("Portfolio created")
	return p, nil
}

// GetPortfolio retrieves a portfolio by name.
func (s *Service) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	return s.store.GetPortfolio(ctx, name)
}

// ListPortfolios returns all portfolio names.
func (s *Service) ListPortfolios(ctx context.Context) ([]string, error) {
	return s.store.ListPortfolios(ctx)
}

// DeletePortfolio removes a portfolio and its price cache.
func (s *Service) DeletePortfolio(ctx context.Context, name string) error {
	if err := s.store.DeletePortfolio(ctx, name); err != nil {
		return err
	}
	s.dropResolver(name)
	s.logger.Info().Str("name", name).Msg("Portfolio deleted")
	return nil
}

// Purchase records a buy of shares at the market close nearest to date.
// The price is resolved before any mutation: an unresolvable price
// leaves the portfolio exactly as it was.
func (s *Service) Purchase(ctx context.Context, name, ticker string, shares int64, date time.Time) (*models.Portfolio, error) {
	ticker = models.NormalizeTicker(ticker)
	if !tickerPattern.MatchString(ticker) {
		return nil, fmt.Errorf("%w: ticker %q", ErrInvalidInput, ticker)
	}
	if shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be positive, got %d", ErrInvalidInput, shares)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: purchase date is required", ErrInvalidInput)
	}
	if date.After(s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrFutureDate, date.Format("2006-01-02"))
	}

	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	tradingDate := pricing.NearestTradingDay(date)
	price, err := s.resolverFor(name).Resolve(ctx, ticker, date)
	if err != nil {
		return nil, fmt.Errorf("cannot price %s on %s: %w", ticker, tradingDate.Format("2006-01-02"), err)
	}

	h := p.UpsertHolding(ticker, shares, price, tradingDate)
	p.UpdatedAt = s.now()
	if err := s.store.SavePortfolio(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().
		Str("portfolio", name).
		Str("ticker", ticker).
		Int64("shares", shares).
		Float64("price", price).
		Float64("cost_basis", h.CostBasis).
		Str("date", tradingDate.Format("2006-01-02")).
		Msg("Purchase recorded")

	return p, nil
}

// RemoveHolding deletes a position outright.
func (s *Service) RemoveHolding(ctx context.Context, name, ticker string) (*models.Portfolio, error) {
	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	if !p.RemoveHolding(ticker) {
		return nil, fmt.Errorf("%w: %s", ErrHoldingNotFound, models.NormalizeTicker(ticker))
	}

	p.UpdatedAt = s.now()
	if err := s.store.SavePortfolio(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("portfolio", name).Str("ticker", models.NormalizeTicker(ticker)).Msg("Holding removed")
	return p, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)

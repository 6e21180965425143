package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foliotrack/folio/internal/models"
	"github.com/foliotrack/folio/internal/services/pricing"
)

// priced is one holding with its resolved close, or the warning that
// stands in for it.
type priced struct {
	ticker  string
	holding models.Holding
	price   float64
	warning *models.ValuationWarning
}

// priceHoldings resolves closes for every holding concurrently,
// bounded by MaxConcurrent. Holdings acquired after the valuation date
// are excluded entirely, with neither value nor warning. Resolution
// failures become warnings, never errors.
func (s *Service) priceHoldings(ctx context.Context, name string, p *models.Portfolio, date time.Time) ([]priced, error) {
	resolver := s.resolverFor(name)

	var mu sync.Mutex
	var results []priced

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pricing.MaxConcurrent)

	for ticker, h := range p.Holdings {
		if date.Before(h.AcquisitionDate) {
			continue
		}
		ticker, h := ticker, h
		g.Go(func() error {
			price, err := resolver.Resolve(gctx, ticker, date)
			pr := priced{ticker: ticker, holding: h, price: price}
			if err != nil {
				if !errors.Is(err, pricing.ErrPriceUnavailable) {
					return err // cancellation or transport failure aborts the valuation
				}
				pr.warning = &models.ValuationWarning{
					Ticker: ticker,
					Reason: fmt.Sprintf("no price within %d days of %s", resolver.LookbackDays(), date.Format("2006-01-02")),
				}
			}
			mu.Lock()
			results = append(results, pr)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ticker < results[j].ticker })
	return results, nil
}

// ValueAt computes total portfolio value at the close nearest to date.
// Holdings that cannot be priced contribute zero and are reported as
// warnings rather than failing the whole valuation.
func (s *Service) ValueAt(ctx context.Context, name string, date time.Time) (*models.Valuation, error) {
	if date.After(s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrFutureDate, date.Format("2006-01-02"))
	}

	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	results, err := s.priceHoldings(ctx, name, p, date)
	if err != nil {
		return nil, err
	}

	v := &models.Valuation{Date: pricing.NearestTradingDay(date)}
	for _, r := range results {
		if r.warning != nil {
			v.Warnings = append(v.Warnings, *r.warning)
			continue
		}
		v.Value += float64(r.holding.Shares) * r.price
	}

	return v, nil
}

// Summary builds the full current-state report for a portfolio.
func (s *Service) Summary(ctx context.Context, name string) (*models.PortfolioReport, error) {
	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	results, err := s.priceHoldings(ctx, name, p, asOf)
	if err != nil {
		return nil, err
	}

	report := &models.PortfolioReport{
		PortfolioName: p.Name,
		AsOf:          pricing.NearestTradingDay(asOf),
	}

	for _, r := range results {
		if r.warning != nil {
			report.Warnings = append(report.Warnings, *r.warning)
			continue
		}
		h := r.holding
		row := models.HoldingReport{
			Ticker:       r.ticker,
			Shares:       h.Shares,
			CostBasis:    h.CostBasis,
			CurrentPrice: r.price,
			Value:        float64(h.Shares) * r.price,
			Cost:         h.Cost(),
		}
		if h.CostBasis > 0 {
			row.ChangePct = (r.price - h.CostBasis) / h.CostBasis * 100
		}
		report.Holdings = append(report.Holdings, row)
		report.TotalValue += row.Value
		report.TotalCost += row.Cost
	}

	if report.TotalCost > 0 {
		report.TotalReturnPct = (report.TotalValue - report.TotalCost) / report.TotalCost * 100
	}

	return report, nil
}

// YearlySeries values the portfolio at each calendar year end from the
// earliest acquisition to now. The current year is valued as of today.
func (s *Service) YearlySeries(ctx context.Context, name string) ([]models.YearlyValue, error) {
	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	earliest := p.EarliestAcquisition()
	if earliest.IsZero() {
		return nil, nil
	}

	now := s.now()
	var series []models.YearlyValue
	for year := earliest.Year(); year <= now.Year(); year++ {
		at := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		if at.After(now) {
			at = now
		}
		v, err := s.ValueAt(ctx, name, at)
		if err != nil {
			return nil, err
		}

		yv := models.YearlyValue{Year: year, Value: v.Value}
		if n := len(series); n > 0 && series[n-1].Value > 0 {
			pct := (v.Value - series[n-1].Value) / series[n-1].Value * 100
			yv.ChangePct = &pct
		}
		series = append(series, yv)
	}

	return series, nil
}

// DailySeries values the portfolio at each business day from the
// earliest acquisition to now. Resolved prices are cached, so the cost
// is one source round trip per ticker per trading day at worst.
func (s *Service) DailySeries(ctx context.Context, name string) ([]models.SeriesPoint, error) {
	p, err := s.store.GetPortfolio(ctx, name)
	if err != nil {
		return nil, err
	}

	earliest := p.EarliestAcquisition()
	if earliest.IsZero() {
		return nil, nil
	}

	now := s.now()
	var series []models.SeriesPoint
	for day := earliest; !day.After(now); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		v, err := s.ValueAt(ctx, name, day)
		if err != nil {
			return nil, err
		}
		series = append(series, models.SeriesPoint{Date: day, Value: v.Value})
	}

	return series, nil
}

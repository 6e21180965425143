// Package models defines data structures for Folio
package models

import (
	"sort"
	"strings"
	"time"
)

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Holding represents a portfolio position. CostBasis is the share-weighted
// average purchase price per share across all buys of the ticker.
// AcquisitionDate is the date of the first purchase and is never updated
// on subsequent buys.
type Holding struct {
	Ticker          string    `json:"ticker"`
	Shares          int64     `json:"shares"`
	CostBasis       float64   `json:"cost_basis"`
	AcquisitionDate time.Time `json:"acquisition_date"`
}

// Cost returns the total cost of the position (CostBasis × Shares).
func (h Holding) Cost() float64 {
	return h.CostBasis * float64(h.Shares)
}

// Portfolio represents a stock portfolio. Holdings are keyed by
// normalized ticker; a ticker appears at most once.
type Portfolio struct {
	ID        string             `json:"id" badgerhold:"key"`
	Name      string             `json:"name" badgerholdIndex:"Name"`
	Holdings  map[string]Holding `json:"holdings"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// UpsertHolding merges a purchase into the portfolio. An existing holding
// gets the share-weighted average cost basis:
//
//	newAvg = (oldShares*oldAvg + addedShares*price) / (oldShares+addedShares)
//
// A new holding records date as its acquisition date.
func (p *Portfolio) UpsertHolding(ticker string, shares int64, price float64, date time.Time) Holding {
	ticker = NormalizeTicker(ticker)
	if p.Holdings == nil {
		p.Holdings = make(map[string]Holding)
	}

	h, ok := p.Holdings[ticker]
	if !ok {
		h = Holding{
			Ticker:          ticker,
			Shares:          shares,
			CostBasis:       price,
			AcquisitionDate: date,
		}
		p.Holdings[ticker] = h
		return h
	}

	total := h.Shares + shares
	h.CostBasis = (float64(h.Shares)*h.CostBasis + float64(shares)*price) / float64(total)
	h.Shares = total
	p.Holdings[ticker] = h
	return h
}

// RemoveHolding deletes a holding. Returns false if the ticker is not held.
func (p *Portfolio) RemoveHolding(ticker string) bool {
	ticker = NormalizeTicker(ticker)
	if _, ok := p.Holdings[ticker]; !ok {
		return false
	}
	delete(p.Holdings, ticker)
	return true
}

// SortedHoldings returns holdings ordered by ticker for stable output.
func (p *Portfolio) SortedHoldings() []Holding {
	out := make([]Holding, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// EarliestAcquisition returns the oldest acquisition date across holdings,
// or the zero time for an empty portfolio.
func (p *Portfolio) EarliestAcquisition() time.Time {
	var earliest time.Time
	for _, h := range p.Holdings {
		if earliest.IsZero() || h.AcquisitionDate.Before(earliest) {
			earliest = h.AcquisitionDate
		}
	}
	return earliest
}

// ValuationWarning records a holding that could not be priced during a
// valuation. Warnings are collected, not raised: the aggregate total is
// still best-effort, but callers can audit which tickers were excluded.
type ValuationWarning struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Valuation is a point-in-time portfolio value. A zero Value with empty
// Warnings means an empty portfolio; a zero contribution from a held
// ticker always carries a warning.
type Valuation struct {
	Date     time.Time          `json:"date"`
	Value    float64            `json:"value"`
	Warnings []ValuationWarning `json:"warnings,omitempty"`
}

// HoldingReport is a single row of a portfolio summary.
type HoldingReport struct {
	Ticker       string  `json:"ticker"`
	Shares       int64   `json:"shares"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price"`
	Value        float64 `json:"value"`
	Cost         float64 `json:"cost"`
	ChangePct    float64 `json:"change_pct"`
}

// PortfolioReport summarizes current portfolio performance.
// TotalReturnPct is 0 for an empty portfolio.
type PortfolioReport struct {
	PortfolioName  string             `json:"portfolio_name"`
	AsOf           time.Time          `json:"as_of"`
	Holdings       []HoldingReport    `json:"holdings"`
	TotalValue     float64            `json:"total_value"`
	TotalCost      float64            `json:"total_cost"`
	TotalReturnPct float64            `json:"total_return_pct"`
	Warnings       []ValuationWarning `json:"warnings,omitempty"`
}

// YearlyValue is one row of the year-end value series. ChangePct is nil
// for the first year and whenever the prior year's value is zero.
type YearlyValue struct {
	Year      int      `json:"year"`
	Value     float64  `json:"value"`
	ChangePct *float64 `json:"change_pct,omitempty"`
}

// SeriesPoint is a single point in the daily portfolio value time series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

package pricing

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

// ErrPriceUnavailable means no source had a price for the ticker within
// the lookback window. It is a data-does-not-exist result, not a
// transient failure: transport errors are absorbed by fallback and never
// surface past the resolver.
var ErrPriceUnavailable = errors.New("price unavailable")

// DefaultLookbackDays bounds the backward search from the originally
// requested date. Delisted or invalid tickers give up after this window
// instead of walking back forever.
const DefaultLookbackDays = 10

// Resolver resolves closing prices through an ordered source chain.
// Sources are tried in fixed priority order (primary first) for
// deterministic results; a failing source is skipped, not retried,
// within a single resolve. Each resolver owns its cache, so cache
// lifetime matches the owning portfolio.
type Resolver struct {
	sources      []interfaces.PriceSource
	cache        *Cache
	lookbackDays int
	logger       *common.Logger
	flight       singleflight.Group
}

// NewResolver creates a resolver over the given sources in priority
// order. lookbackDays <= 0 uses DefaultLookbackDays.
func NewResolver(cache *Cache, logger *common.Logger, lookbackDays int, sources ...interfaces.PriceSource) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Resolver{
		sources:      sources,
		cache:        cache,
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Cache exposes the resolver's cache for inspection in tests.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// LookbackDays reports how far back the resolver will search.
func (r *Resolver) LookbackDays() int {
	return r.lookbackDays
}

// Resolve returns the closing price for ticker nearest to date.
// The date is trading-day adjusted first; if no source has a bar there,
// the search steps back one calendar day at a time (re-adjusted) until
// the lookback window from the originally requested date is exhausted.
// The final result, price or unavailability, is cached under the date
// actually used. Concurrent calls for the same (ticker, adjusted date)
// are deduplicated to a single in-flight fetch.
func (r *Resolver) Resolve(ctx context.Context, ticker string, date time.Time) (float64, error) {
	ticker = models.NormalizeTicker(ticker)
	start := NearestTradingDay(date)

	if price, unavailable, ok := r.cache.Get(ticker, start); ok {
		if unavailable {
			return 0, ErrPriceUnavailable
		}
		return price, nil
	}

	v, err, _ := r.flight.Do(cacheKey(ticker, start), func() (interface{}, error) {
		return r.resolve(ctx, ticker, date, start)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// resolve walks the lookback window. A cached unavailability marker only
// short-circuits the initial adjusted date (handled in Resolve): it was
// recorded for a different window and is not trusted for earlier days.
func (r *Resolver) resolve(ctx context.Context, ticker string, requested, start time.Time) (float64, error) {
	limit := requested.AddDate(0, 0, -r.lookbackDays)

	for day := start; !day.Before(limit); day = NearestTradingDay(day.AddDate(0, 0, -1)) {
		if price, unavailable, ok := r.cache.Get(ticker, day); ok && !unavailable {
			return price, nil
		}

		for _, src := range r.sources {
			price, err := src.FetchClose(ctx, ticker, day)
			if err != nil {
				if ctx.Err() != nil {
					// Aborted fetches must not poison the cache.
					return 0, ctx.Err()
				}
				r.logger.Debug().
					Err(err).
					Str("ticker", ticker).
					Str("source", src.Name()).
					Str("date", DayKey(day)).
					Msg("Price source miss")
				continue
			}
			if price <= 0 {
				r.logger.Warn().
					Str("ticker", ticker).
					Str("source", src.Name()).
					Float64("price", price).
					Msg("Ignoring non-positive price")
				continue
			}

			r.cache.SetPrice(ticker, day, price)
			return price, nil
		}
	}

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	r.logger.Info().
		Str("ticker", ticker).
		Str("requested", DayKey(requested)).
		Int("lookback_days", r.lookbackDays).
		Msg("No price within lookback window")
	r.cache.SetUnavailable(ticker, start)
	return 0, ErrPriceUnavailable
}

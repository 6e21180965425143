package app

import (
	"context"
	"os"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
)

// warmCache pre-fetches current prices for every stored portfolio so
// the first summary request is fast.
func warmCache(ctx context.Context, portfolioService interfaces.PortfolioService, logger *common.Logger) {
	if os.Getenv("FOLIO_WARM_CACHE") == "off" {
		logger.Info().Msg("Warm cache: disabled via FOLIO_WARM_CACHE=off")
		return
	}

	start := time.Now()

	names, err := portfolioService.ListPortfolios(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Warm cache: failed to list portfolios")
		return
	}
	if len(names) == 0 {
		logger.Info().Msg("Warm cache: no portfolios, skipping")
		return
	}

	warmed := 0
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		if _, err := portfolioService.Summary(ctx, name); err != nil {
			logger.Warn().Err(err).Str("portfolio", name).Msg("Warm cache: summary failed")
			continue
		}
		warmed++
	}

	logger.Info().
		Int("portfolios", warmed).
		Dur("elapsed", time.Since(start)).
		Msg("Warm cache: complete")
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.PortfolioService, a.Logger)
	}()
}

// Package app wires configuration, storage, clients, and services into
// a single application core shared by cmd/folio-server and cmd/folio.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foliotrack/folio/internal/clients/edgar"
	"github.com/foliotrack/folio/internal/clients/polygon"
	"github.com/foliotrack/folio/internal/clients/stooq"
	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/services/filings"
	"github.com/foliotrack/folio/internal/services/portfolio"
	"github.com/foliotrack/folio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Store            interfaces.PortfolioStore
	PriceSources     []interfaces.PriceSource
	EDGARClient      interfaces.FilingsClient
	PortfolioService interfaces.PortfolioService
	FilingsService   interfaces.FilingsService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be
// empty, in which case FOLIO_CONFIG and the binary directory are tried.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewBadgerStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Price sources in priority order. Polygon is primary but needs an
	// API key; Stooq is a free fallback and is always available.
	var sources []interfaces.PriceSource
	if config.Clients.Polygon.APIKey != "" {
		sources = append(sources, polygon.NewClient(config.Clients.Polygon.APIKey,
			polygon.WithBaseURL(config.Clients.Polygon.BaseURL),
			polygon.WithLogger(logger),
			polygon.WithRateLimit(config.Clients.Polygon.RateLimit),
			polygon.WithTimeout(config.Clients.Polygon.GetTimeout()),
		))
	} else {
		logger.Warn().Msg("Polygon API key not configured - falling back to Stooq only")
	}
	sources = append(sources, stooq.NewClient(
		stooq.WithBaseURL(config.Clients.Stooq.BaseURL),
		stooq.WithLogger(logger),
		stooq.WithRateLimit(config.Clients.Stooq.RateLimit),
		stooq.WithTimeout(config.Clients.Stooq.GetTimeout()),
	))

	edgarClient := edgar.NewClient(
		edgar.WithBaseURL(config.Clients.EDGAR.BaseURL),
		edgar.WithUserAgent(config.Clients.EDGAR.UserAgent),
		edgar.WithLogger(logger),
		edgar.WithRateLimit(config.Clients.EDGAR.RateLimit),
		edgar.WithTimeout(config.Clients.EDGAR.GetTimeout()),
	)

	portfolioService := portfolio.NewService(store, logger, config.Pricing, sources...)
	filingsService := filings.NewService(edgarClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Store:            store,
		PriceSources:     sources,
		EDGARClient:      edgarClient,
		PortfolioService: portfolioService,
		FilingsService:   filingsService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
		a.Store = nil
	}
}

// Package storage provides BadgerDB-based persistence
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

// ErrNotFound is returned when a requested portfolio does not exist.
var ErrNotFound = errors.New("not found")

// BadgerStore implements PortfolioStore using badgerhold. Portfolios
// are keyed by name.
type BadgerStore struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewBadgerStore opens the store at the configured path
func NewBadgerStore(logger *common.Logger, config *common.StorageConfig) (*BadgerStore, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = config.Path
	opts.ValueDir = config.Path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger store opened")

	return &BadgerStore{
		store:  store,
		logger: logger,
	}, nil
}

// Close closes the database
func (s *BadgerStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *BadgerStore) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.store.Get(name, &portfolio)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s' %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return &portfolio, nil
}

func (s *BadgerStore) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	portfolio.UpdatedAt = time.Now()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = time.Now()
	}

	err := s.store.Upsert(portfolio.Name, portfolio)
	if err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Str("name", portfolio.Name).Msg("Portfolio saved")
	return nil
}

func (s *BadgerStore) DeletePortfolio(ctx context.Context, name string) error {
	err := s.store.Delete(name, models.Portfolio{})
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("portfolio '%s' %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	s.logger.Debug().Str("name", name).Msg("Portfolio deleted")
	return nil
}

func (s *BadgerStore) ListPortfolios(ctx context.Context) ([]string, error) {
	var portfolios []models.Portfolio
	err := s.store.Find(&portfolios, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	names := make([]string, len(portfolios))
	for i, p := range portfolios {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names, nil
}

// Ensure BadgerStore implements PortfolioStore
var _ interfaces.PortfolioStore = (*BadgerStore)(nil)

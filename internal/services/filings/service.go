// Package filings provides SEC filings lookups
package filings

import (
	"context"
	"fmt"
	"strings"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
	"github.com/foliotrack/folio/internal/models"
)

const defaultCount = 10

// Service implements FilingsService on top of an EDGAR client.
type Service struct {
	client interfaces.FilingsClient
	logger *common.Logger
}

// NewService creates a new filings service
func NewService(client interfaces.FilingsClient, logger *common.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns recent filings for a ticker, newest first, optionally
// filtered by form type. count <= 0 uses a default of 10.
func (s *Service) List(ctx context.Context, ticker string, formTypes []string, count int) ([]models.Filing, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if count <= 0 {
		count = defaultCount
	}

	filings, err := s.client.ListFilings(ctx, ticker, formTypes, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list filings for %s: %w", ticker, err)
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Str("forms", strings.Join(formTypes, ",")).
		Int("count", len(filings)).
		Msg("Filings retrieved")

	return filings, nil
}

// Ensure Service implements FilingsService
var _ interfaces.FilingsService = (*Service)(nil)

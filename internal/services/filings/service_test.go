package filings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/models"
)

type stubClient struct {
	filings   []models.Filing
	err       error
	gotTicker string
	gotForms  []string
	gotCount  int
}

func (s *stubClient) ListFilings(_ context.Context, ticker string, formTypes []string, count int) ([]models.Filing, error) {
	s.gotTicker = ticker
	s.gotForms = formTypes
	s.gotCount = count
	return s.filings, s.err
}

func TestList_NormalizesTickerAndDefaultsCount(t *testing.T) {
	client := &stubClient{filings: []models.Filing{
		{FormType: "10-K", FiledDate: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(client, common.NewSilentLogger())

	filings, err := svc.List(context.Background(), " aapl ", []string{"10-K"}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if client.gotTicker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", client.gotTicker)
	}
	if client.gotCount != 10 {
		t.Errorf("count = %d, want default 10", client.gotCount)
	}
	if len(filings) != 1 || filings[0].FormType != "10-K" {
		t.Errorf("filings = %v", filings)
	}
}

func TestList_EmptyTicker(t *testing.T) {
	svc := NewService(&stubClient{}, common.NewSilentLogger())
	if _, err := svc.List(context.Background(), "  ", nil, 5); err == nil {
		t.Error("expected error for empty ticker")
	}
}

func TestList_ClientErrorWrapped(t *testing.T) {
	boom := errors.New("edgar down")
	svc := NewService(&stubClient{err: boom}, common.NewSilentLogger())

	_, err := svc.List(context.Background(), "AAPL", nil, 5)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped client error", err)
	}
}

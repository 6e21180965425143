package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"aapl", "AAPL"},
		{" GOOGL ", "GOOGL"},
		{"Brk.B", "BRK.B"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeTicker(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUpsertHolding_WeightedAverage(t *testing.T) {
	p := &Portfolio{Name: "test"}

	p.UpsertHolding("AAPL", 10, 100.0, date(2024, 1, 2))
	h := p.UpsertHolding("aapl", 10, 200.0, date(2024, 6, 3))

	if h.Shares != 20 {
		t.Errorf("Shares = %d, want 20", h.Shares)
	}
	if h.CostBasis != 150.0 {
		t.Errorf("CostBasis = %.2f, want 150.00", h.CostBasis)
	}
	// Acquisition date is retained from the first purchase
	if !h.AcquisitionDate.Equal(date(2024, 1, 2)) {
		t.Errorf("AcquisitionDate = %v, want 2024-01-02", h.AcquisitionDate)
	}
	if len(p.Holdings) != 1 {
		t.Errorf("expected 1 holding, got %d", len(p.Holdings))
	}
}

func TestRemoveHolding(t *testing.T) {
	p := &Portfolio{Name: "test"}
	p.UpsertHolding("AAPL", 10, 100.0, date(2024, 1, 2))

	if !p.RemoveHolding("aapl") {
		t.Error("RemoveHolding returned false for held ticker")
	}
	if p.RemoveHolding("AAPL") {
		t.Error("RemoveHolding returned true for missing ticker")
	}
	if len(p.Holdings) != 0 {
		t.Errorf("expected 0 holdings, got %d", len(p.Holdings))
	}
}

func TestEarliestAcquisition(t *testing.T) {
	p := &Portfolio{Name: "test"}
	if !p.EarliestAcquisition().IsZero() {
		t.Error("empty portfolio should have zero earliest acquisition")
	}

	p.UpsertHolding("GOOGL", 5, 140.0, date(2024, 2, 1))
	p.UpsertHolding("AAPL", 10, 150.0, date(2024, 1, 1))

	if got := p.EarliestAcquisition(); !got.Equal(date(2024, 1, 1)) {
		t.Errorf("EarliestAcquisition = %v, want 2024-01-01", got)
	}
}

func TestSortedHoldings(t *testing.T) {
	p := &Portfolio{Name: "test"}
	p.UpsertHolding("MSFT", 1, 400.0, date(2024, 1, 1))
	p.UpsertHolding("AAPL", 1, 150.0, date(2024, 1, 1))
	p.UpsertHolding("GOOGL", 1, 140.0, date(2024, 1, 1))

	got := p.SortedHoldings()
	want := []string{"AAPL", "GOOGL", "MSFT"}
	for i, h := range got {
		if h.Ticker != want[i] {
			t.Errorf("holding[%d] = %s, want %s", i, h.Ticker, want[i])
		}
	}
}

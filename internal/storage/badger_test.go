package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/models"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGetPortfolio(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Portfolio{
		ID:   "id-1",
		Name: "main",
		Holdings: map[string]models.Holding{
			"AAPL": {
				Ticker:          "AAPL",
				Shares:          10,
				CostBasis:       150.0,
				AcquisitionDate: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	if err := store.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetPortfolio(ctx, "main")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "main" || got.ID != "id-1" {
		t.Errorf("got %q/%q, want main/id-1", got.Name, got.ID)
	}
	h, ok := got.Holdings["AAPL"]
	if !ok {
		t.Fatal("AAPL holding missing after round trip")
	}
	if h.Shares != 10 || h.CostBasis != 150.0 {
		t.Errorf("holding = %d @ %.2f, want 10 @ 150.00", h.Shares, h.CostBasis)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on save")
	}
}

func TestGetPortfolio_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPortfolio(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePortfolio(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Portfolio{ID: "id-1", Name: "main"}
	if err := store.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.DeletePortfolio(ctx, "main"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetPortfolio(ctx, "main"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}

	if err := store.DeletePortfolio(ctx, "main"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}

func TestListPortfolios_Sorted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.SavePortfolio(ctx, &models.Portfolio{ID: name, Name: name}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	names, err := store.ListPortfolios(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSavePortfolio_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Portfolio{ID: "id-1", Name: "main", Holdings: map[string]models.Holding{}}
	if err := store.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	p.Holdings["AAPL"] = models.Holding{Ticker: "AAPL", Shares: 5, CostBasis: 100}
	if err := store.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetPortfolio(ctx, "main")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Holdings) != 1 {
		t.Errorf("holdings = %d, want 1 after update", len(got.Holdings))
	}

	names, _ := store.ListPortfolios(ctx)
	if len(names) != 1 {
		t.Errorf("list = %v, want a single entry after upsert", names)
	}
}

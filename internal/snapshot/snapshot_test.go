package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/model"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

func TestAssemble(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	m.UpsertStock(ctx, model.Stock{Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("175.43")})
	m.UpsertCurrencyPair(ctx, model.CurrencyPair{Symbol: "EUR/USD", BaseCurrency: "EUR", QuoteCurrency: "USD", Rate: decimal.RequireFromString("1.084500")})
	m.UpsertIndex(ctx, model.MarketIndex{Name: "S&P 500", Symbol: "^GSPC", Value: decimal.RequireFromString("5021.84")})
	m.InsertNews(ctx, model.NewsArticle{Title: "headline", Summary: "s", Source: "wire"})

	start := time.Now()
	snap, err := NewAssembler(m).Assemble(ctx)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if len(snap.Stocks) != 1 {
		t.Errorf("Stocks = %d, want 1", len(snap.Stocks))
	}
	if len(snap.Currencies) != 1 {
		t.Errorf("Currencies = %d, want 1", len(snap.Currencies))
	}
	if len(snap.Indices) != 1 {
		t.Errorf("Indices = %d, want 1", len(snap.Indices))
	}
	if len(snap.News) != 1 {
		t.Errorf("News = %d, want 1", len(snap.News))
	}
	if snap.CapturedAt.Before(start) {
		t.Errorf("CapturedAt = %v, want >= %v", snap.CapturedAt, start)
	}
}

func TestAssemble_NewsCapped(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	for i := 0; i < NewsLimit+7; i++ {
		m.InsertNews(ctx, model.NewsArticle{Title: "t", Summary: "s", Source: "wire"})
	}

	snap, err := NewAssembler(m).Assemble(ctx)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(snap.News) != NewsLimit {
		t.Errorf("News = %d, want %d", len(snap.News), NewsLimit)
	}
}

func TestAssemble_EmptyStoreYieldsEmptySlices(t *testing.T) {
	snap, err := NewAssembler(store.NewMemory()).Assemble(context.Background())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if snap.Stocks == nil || snap.Currencies == nil || snap.Indices == nil || snap.News == nil {
		t.Error("snapshot slices should be empty, not nil")
	}
}

// failingStore fails every stock read; the other lists still work.
type failingStore struct {
	*store.Memory
}

var errDown = errors.New("storage unavailable")

func (f *failingStore) ListStocks(ctx context.Context) ([]model.Stock, error) {
	return nil, errDown
}

func TestAssemble_PropagatesStoreError(t *testing.T) {
	f := &failingStore{Memory: store.NewMemory()}

	_, err := NewAssembler(f).Assemble(context.Background())
	if !errors.Is(err, errDown) {
		t.Errorf("err = %v, want %v", err, errDown)
	}
}

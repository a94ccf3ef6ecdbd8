package snapshot

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talankisai/financehub-fullstack/internal/model"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

// NewsLimit caps the news slice of every snapshot.
const NewsLimit = 10

// Snapshot is a point-in-time aggregation of all market entity lists,
// assembled for one push or response.
type Snapshot struct {
	Stocks     []model.Stock        `json:"stocks"`
	Currencies []model.CurrencyPair `json:"currencies"`
	Indices    []model.MarketIndex  `json:"indices"`
	News       []model.NewsArticle  `json:"news"`
	CapturedAt time.Time            `json:"capturedAt"`
}

// Assembler gathers read-only snapshots from the store.
type Assembler struct {
	store store.Store
}

// NewAssembler creates an Assembler backed by the given store.
func NewAssembler(s store.Store) *Assembler {
	return &Assembler{store: s}
}

// Assemble reads all four entity lists concurrently and stamps the result.
// The four sub-reads are each consistent but not mutually atomic: a write
// landing mid-assembly may show in one list and not another. Accepted
// trade-off for a read-mostly dashboard; no read transaction is taken.
func (a *Assembler) Assemble(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Stocks, err = a.store.ListStocks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Currencies, err = a.store.ListCurrencyPairs(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Indices, err = a.store.ListIndices(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.News, err = a.store.ListNews(ctx, NewsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	// Empty lists serialize as [], not null.
	if snap.Stocks == nil {
		snap.Stocks = []model.Stock{}
	}
	if snap.Currencies == nil {
		snap.Currencies = []model.CurrencyPair{}
	}
	if snap.Indices == nil {
		snap.Indices = []model.MarketIndex{}
	}
	if snap.News == nil {
		snap.News = []model.NewsArticle{}
	}

	snap.CapturedAt = time.Now().UTC()
	return snap, nil
}

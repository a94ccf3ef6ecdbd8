package seed

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/store"
)

// Refresher is the synthetic feed source: it periodically re-upserts every
// market row with a jittered value so connected dashboards see movement.
// There is no live external feed; this stands in for one.
type Refresher struct {
	store    store.Store
	interval time.Duration
	logger   *slog.Logger
	rng      *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a Refresher.
func NewRefresher(st store.Store, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		store:    st,
		interval: interval,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.loop()

	r.logger.Info("market refresher started", "interval", r.interval)
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.logger.Info("market refresher stopped")
}

func (r *Refresher) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			// A failed tick is skipped; the next one starts fresh.
			if err := r.refresh(r.ctx); err != nil {
				r.logger.Error("refresh tick failed", "error", err)
			}
		}
	}
}

// refresh jitters every stock, pair, and index through the upsert path.
func (r *Refresher) refresh(ctx context.Context) error {
	stocks, err := r.store.ListStocks(ctx)
	if err != nil {
		return err
	}
	for _, s := range stocks {
		delta := r.jitter(s.Price, 2)
		s.Price = s.Price.Add(delta)
		s.Change = s.Change.Add(delta).Round(2)
		s.ChangePercent = percentOf(s.Change, s.Price)
		if _, err := r.store.UpsertStock(ctx, s); err != nil {
			return err
		}
	}

	pairs, err := r.store.ListCurrencyPairs(ctx)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		delta := r.jitter(p.Rate, 6)
		p.Rate = p.Rate.Add(delta)
		p.Change = p.Change.Add(delta).Round(6)
		p.ChangePercent = percentOf(p.Change, p.Rate)
		if _, err := r.store.UpsertCurrencyPair(ctx, p); err != nil {
			return err
		}
	}

	indices, err := r.store.ListIndices(ctx)
	if err != nil {
		return err
	}
	for _, idx := range indices {
		delta := r.jitter(idx.Value, 2)
		idx.Value = idx.Value.Add(delta)
		idx.Change = idx.Change.Add(delta).Round(2)
		idx.ChangePercent = percentOf(idx.Change, idx.Value)
		if _, err := r.store.UpsertIndex(ctx, idx); err != nil {
			return err
		}
	}

	return nil
}

// jitter returns a random move within ±0.25% of the base value.
func (r *Refresher) jitter(base decimal.Decimal, places int32) decimal.Decimal {
	f := (r.rng.Float64() - 0.5) * 0.005
	return base.Mul(decimal.NewFromFloat(f)).Round(places)
}

func percentOf(change, value decimal.Decimal) decimal.Decimal {
	if value.IsZero() {
		return decimal.Zero
	}
	return change.Div(value).Mul(decimal.NewFromInt(100)).Round(2)
}

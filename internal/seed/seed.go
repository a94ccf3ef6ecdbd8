package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/model"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Stocks returns the sample equity dataset.
func Stocks() []model.Stock {
	return []model.Stock{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: dec("175.43"), Change: dec("2.15"), ChangePercent: dec("1.24"), Volume: "52.3M", MarketCap: "2.7T", PERatio: decp("28.5"), Week52High: decp("199.62"), Week52Low: decp("164.08")},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Price: dec("428.70"), Change: dec("-1.32"), ChangePercent: dec("-0.31"), Volume: "18.9M", MarketCap: "3.2T", PERatio: decp("36.8"), Week52High: decp("468.35"), Week52Low: decp("362.90")},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: dec("141.80"), Change: dec("0.95"), ChangePercent: dec("0.67"), Volume: "24.1M", MarketCap: "1.8T", PERatio: decp("26.9"), Week52High: decp("155.20"), Week52Low: decp("102.21")},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: dec("178.25"), Change: dec("3.41"), ChangePercent: dec("1.95"), Volume: "41.7M", MarketCap: "1.9T", PERatio: decp("61.2"), Week52High: decp("189.77"), Week52Low: decp("118.35")},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: dec("177.58"), Change: dec("-4.22"), ChangePercent: dec("-2.32"), Volume: "98.6M", MarketCap: "566.1B", PERatio: decp("45.3"), Week52High: decp("299.29"), Week52Low: decp("138.80")},
	}
}

// CurrencyPairs returns the sample FX dataset.
func CurrencyPairs() []model.CurrencyPair {
	return []model.CurrencyPair{
		{Symbol: "EUR/USD", BaseCurrency: "EUR", QuoteCurrency: "USD", Rate: dec("1.084500"), Change: dec("0.002300"), ChangePercent: dec("0.21"), Margin: dec("0.25")},
		{Symbol: "GBP/USD", BaseCurrency: "GBP", QuoteCurrency: "USD", Rate: dec("1.267200"), Change: dec("-0.001800"), ChangePercent: dec("-0.14"), Margin: dec("0.30")},
		{Symbol: "USD/JPY", BaseCurrency: "USD", QuoteCurrency: "JPY", Rate: dec("149.820000"), Change: dec("0.340000"), ChangePercent: dec("0.23"), Margin: dec("0.20")},
		{Symbol: "USD/CHF", BaseCurrency: "USD", QuoteCurrency: "CHF", Rate: dec("0.883400"), Change: dec("-0.000900"), ChangePercent: dec("-0.10"), Margin: dec("0.25")},
	}
}

// Indices returns the sample index dataset.
func Indices() []model.MarketIndex {
	return []model.MarketIndex{
		{Name: "S&P 500", Symbol: "^GSPC", Value: dec("5021.84"), Change: dec("28.70"), ChangePercent: dec("0.57")},
		{Name: "Dow Jones Industrial Average", Symbol: "^DJI", Value: dec("38654.42"), Change: dec("-54.64"), ChangePercent: dec("-0.14")},
		{Name: "NASDAQ Composite", Symbol: "^IXIC", Value: dec("15990.66"), Change: dec("96.16"), ChangePercent: dec("0.60")},
	}
}

// News returns the sample news dataset, newest first.
func News() []model.NewsArticle {
	now := time.Now().UTC()
	return []model.NewsArticle{
		{Title: "Fed Holds Rates Steady, Signals Patience on Cuts", Summary: "The Federal Reserve left its benchmark rate unchanged and pushed back on expectations of imminent easing.", Source: "FinanceHub Wire", PublishedAt: now.Add(-2 * time.Hour)},
		{Title: "Tech Megacaps Lead Market Higher on AI Optimism", Summary: "Semiconductor and cloud names rallied as investors rotated back into growth.", Source: "FinanceHub Wire", PublishedAt: now.Add(-5 * time.Hour)},
		{Title: "Euro Slips After Soft PMI Prints", Summary: "Eurozone activity data came in below consensus, weighing on the single currency.", Source: "FX Desk", PublishedAt: now.Add(-8 * time.Hour)},
		{Title: "Oil Steadies as Supply Concerns Offset Demand Worries", Summary: "Crude held near recent ranges amid conflicting inventory signals.", Source: "Commodities Desk", PublishedAt: now.Add(-23 * time.Hour)},
	}
}

// Apply writes the full sample dataset through the store's own upsert path.
// Running it twice does not duplicate market rows; news is append-only and
// is the caller's concern (use ApplyIfEmpty for idempotent startup seeding).
func Apply(ctx context.Context, st store.Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, s := range Stocks() {
		if _, err := st.UpsertStock(ctx, s); err != nil {
			return fmt.Errorf("seed stock %s: %w", s.Symbol, err)
		}
	}
	for _, p := range CurrencyPairs() {
		if _, err := st.UpsertCurrencyPair(ctx, p); err != nil {
			return fmt.Errorf("seed currency pair %s: %w", p.Symbol, err)
		}
	}
	for _, idx := range Indices() {
		if _, err := st.UpsertIndex(ctx, idx); err != nil {
			return fmt.Errorf("seed index %s: %w", idx.Name, err)
		}
	}
	for _, a := range News() {
		if _, err := st.InsertNews(ctx, a); err != nil {
			return fmt.Errorf("seed news %q: %w", a.Title, err)
		}
	}

	logger.Info("sample data seeded",
		"stocks", len(Stocks()),
		"currency_pairs", len(CurrencyPairs()),
		"indices", len(Indices()),
		"news", len(News()),
	)
	return nil
}

// ApplyIfEmpty seeds only when the store holds no stocks yet.
func ApplyIfEmpty(ctx context.Context, st store.Store, logger *slog.Logger) error {
	stocks, err := st.ListStocks(ctx)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if len(stocks) > 0 {
		return nil
	}
	return Apply(ctx, st, logger)
}

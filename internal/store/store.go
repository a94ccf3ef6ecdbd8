package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/model"
)

// Errors
var (
	// ErrNotFound is returned by single-row reads when the key is absent.
	// Absence is not a storage failure; callers map it to a 404.
	ErrNotFound = errors.New("not found")
)

// DefaultNewsLimit is applied when a caller passes a non-positive limit.
const DefaultNewsLimit = 20

// StockStore persists equity quotes keyed by ticker symbol.
type StockStore interface {
	ListStocks(ctx context.Context) ([]model.Stock, error)
	GetStockByID(ctx context.Context, id int64) (model.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error)

	// UpsertStock inserts a new row or replaces every field of the row with
	// the same symbol, refreshing UpdatedAt. Last writer wins.
	UpsertStock(ctx context.Context, s model.Stock) (model.Stock, error)
}

// CurrencyStore persists FX quotes keyed by pair symbol.
type CurrencyStore interface {
	ListCurrencyPairs(ctx context.Context) ([]model.CurrencyPair, error)
	GetCurrencyPairByID(ctx context.Context, id int64) (model.CurrencyPair, error)
	GetCurrencyPairBySymbol(ctx context.Context, symbol string) (model.CurrencyPair, error)
	UpsertCurrencyPair(ctx context.Context, p model.CurrencyPair) (model.CurrencyPair, error)

	// UpdateCurrencyMargin mutates only margin and UpdatedAt. Fire-and-forget:
	// an absent symbol is a silent no-op, not an error.
	UpdateCurrencyMargin(ctx context.Context, symbol string, margin decimal.Decimal) error
}

// IndexStore persists market index levels. Name and symbol are each unique.
type IndexStore interface {
	ListIndices(ctx context.Context) ([]model.MarketIndex, error)
	GetIndexByID(ctx context.Context, id int64) (model.MarketIndex, error)
	GetIndexByName(ctx context.Context, name string) (model.MarketIndex, error)
	UpsertIndex(ctx context.Context, idx model.MarketIndex) (model.MarketIndex, error)
}

// NewsStore persists news articles, append-only.
type NewsStore interface {
	// ListNews returns up to limit articles, newest publication first.
	// A non-positive limit falls back to DefaultNewsLimit.
	ListNews(ctx context.Context, limit int) ([]model.NewsArticle, error)
	InsertNews(ctx context.Context, a model.NewsArticle) (model.NewsArticle, error)
}

// FavoriteStore persists per-user favorites. Add never de-duplicates; Remove
// deletes every row matching the (user, type, id) triple, and removing zero
// rows is not an error.
type FavoriteStore interface {
	ListFavorites(ctx context.Context, userID string) ([]model.UserFavorite, error)
	AddFavorite(ctx context.Context, f model.UserFavorite) (model.UserFavorite, error)
	RemoveFavorite(ctx context.Context, userID, itemType, itemID string) error
}

// UserStore persists users keyed by the external identity subject.
type UserStore interface {
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// UpsertUser inserts or refreshes a user. Role defaults to "user" on first
	// creation; a login upsert with an empty Role keeps the stored role, so an
	// admin is never silently demoted.
	UpsertUser(ctx context.Context, u model.User) (model.User, error)
}

// Store is the full persistence surface. It is the sole owner of persisted
// rows; every other component holds transient read copies only.
type Store interface {
	StockStore
	CurrencyStore
	IndexStore
	NewsStore
	FavoriteStore
	UserStore
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Market Entities
// -----------------------------------------------------------------------------

// Stock represents a single equity quote.
type Stock struct {
	ID            int64            `json:"id"`                   // Generated row id
	Symbol        string           `json:"symbol"`               // Natural key (e.g., "AAPL"), unique
	Name          string           `json:"name"`                 // Company name
	Price         decimal.Decimal  `json:"price"`                // Last price
	Change        decimal.Decimal  `json:"change"`               // Absolute change
	ChangePercent decimal.Decimal  `json:"changePercent"`        // Percent change
	Volume        string           `json:"volume"`               // Display string (e.g., "52.3M")
	MarketCap     string           `json:"marketCap"`            // Display string (e.g., "2.7T")
	PERatio       *decimal.Decimal `json:"peRatio,omitempty"`    // Price/earnings, nullable
	Week52High    *decimal.Decimal `json:"week52High,omitempty"` // 52-week high, nullable
	Week52Low     *decimal.Decimal `json:"week52Low,omitempty"`  // 52-week low, nullable
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// CurrencyPair represents an FX quote. Margin is mutable independently of the
// rate fields.
type CurrencyPair struct {
	ID            int64           `json:"id"`            // Generated row id
	Symbol        string          `json:"symbol"`        // Natural key (e.g., "EUR/USD"), unique
	BaseCurrency  string          `json:"baseCurrency"`  // ISO code (e.g., "EUR")
	QuoteCurrency string          `json:"quoteCurrency"` // ISO code (e.g., "USD")
	Rate          decimal.Decimal `json:"rate"`          // Exchange rate, 6 decimal places
	Change        decimal.Decimal `json:"change"`        // Absolute change, 6 decimal places
	ChangePercent decimal.Decimal `json:"changePercent"` // Percent change
	Margin        decimal.Decimal `json:"margin"`        // Margin percentage
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// MarketIndex represents a market index level. Both Name and Symbol are
// independently unique.
type MarketIndex struct {
	ID            int64           `json:"id"`     // Generated row id
	Name          string          `json:"name"`   // Natural key (e.g., "S&P 500")
	Symbol        string          `json:"symbol"` // Natural key (e.g., "^GSPC")
	Value         decimal.Decimal `json:"value"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewsArticle represents a market news item. Append-only, retrieved newest
// first by publication time.
type NewsArticle struct {
	ID          int64     `json:"id"` // Generated row id
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content,omitempty"`  // Optional full text
	Source      string    `json:"source"`
	ImageURL    string    `json:"imageUrl,omitempty"` // Optional image reference
	PublishedAt time.Time `json:"publishedAt"`        // Caller-supplied, may be historical
	CreatedAt   time.Time `json:"createdAt"`          // Server-assigned
}

// -----------------------------------------------------------------------------
// User-Owned Entities
// -----------------------------------------------------------------------------

// ItemType values for UserFavorite.
const (
	ItemTypeStock    = "stock"
	ItemTypeCurrency = "currency"
	ItemTypeNews     = "news"
)

// ValidItemType reports whether t is a known favorite item type.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeStock, ItemTypeCurrency, ItemTypeNews:
		return true
	}
	return false
}

// UserFavorite associates a user with an (itemType, itemId) pair. The logical
// key is the (UserID, ItemType, ItemID) triple; the row id is incidental.
type UserFavorite struct {
	ID        int64     `json:"id"`       // Generated row id
	UserID    string    `json:"userId"`   // External subject
	ItemType  string    `json:"itemType"` // One of stock, currency, news
	ItemID    string    `json:"itemId"`   // Referenced entity key as string
	CreatedAt time.Time `json:"createdAt"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an authenticated dashboard user. The id is the external
// identity provider's subject string, not a generated key. Created or
// refreshed on every successful login, never deleted.
type User struct {
	ID        string    `json:"id"`    // Identity provider subject
	Email     string    `json:"email"` // Unique
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"` // "user" or "admin"
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

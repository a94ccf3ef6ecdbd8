package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/model"
)

// Compile-time check that Postgres implements Store.
var _ Store = (*Postgres)(nil)

// Postgres is the production Store backed by a pgx connection pool. All
// upserts rely on the schema's unique constraints via INSERT ... ON CONFLICT,
// so concurrent writes on the same natural key serialize in the database.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres creates a Postgres store.
func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger}
}

// Ping verifies the backing database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// -----------------------------------------------------------------------------
// Stocks
// -----------------------------------------------------------------------------

const stockColumns = `id, symbol, name, price, change, change_percent, volume, market_cap, pe_ratio, week52_high, week52_low, updated_at`

func (p *Postgres) ListStocks(ctx context.Context) ([]model.Stock, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var out []model.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) GetStockByID(ctx context.Context, id int64) (model.Stock, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id)
	return getStock(row)
}

func (p *Postgres) GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE symbol = $1`, symbol)
	return getStock(row)
}

func (p *Postgres) UpsertStock(ctx context.Context, s model.Stock) (model.Stock, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO stocks (symbol, name, price, change, change_percent, volume, market_cap, pe_ratio, week52_high, week52_low, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			change = EXCLUDED.change,
			change_percent = EXCLUDED.change_percent,
			volume = EXCLUDED.volume,
			market_cap = EXCLUDED.market_cap,
			pe_ratio = EXCLUDED.pe_ratio,
			week52_high = EXCLUDED.week52_high,
			week52_low = EXCLUDED.week52_low,
			updated_at = now()
		RETURNING `+stockColumns,
		s.Symbol, s.Name, s.Price, s.Change, s.ChangePercent, s.Volume, s.MarketCap,
		nullDec(s.PERatio), nullDec(s.Week52High), nullDec(s.Week52Low),
	)

	saved, err := scanStock(row)
	if err != nil {
		return model.Stock{}, fmt.Errorf("upsert stock %s: %w", s.Symbol, err)
	}
	return saved, nil
}

func getStock(row pgx.Row) (model.Stock, error) {
	s, err := scanStock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Stock{}, ErrNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

func scanStock(row pgx.Row) (model.Stock, error) {
	var s model.Stock
	var pe, hi, lo decimal.NullDecimal
	err := row.Scan(&s.ID, &s.Symbol, &s.Name, &s.Price, &s.Change, &s.ChangePercent,
		&s.Volume, &s.MarketCap, &pe, &hi, &lo, &s.UpdatedAt)
	if err != nil {
		return model.Stock{}, err
	}
	s.PERatio = decPtr(pe)
	s.Week52High = decPtr(hi)
	s.Week52Low = decPtr(lo)
	return s, nil
}

// -----------------------------------------------------------------------------
// Currency pairs
// -----------------------------------------------------------------------------

const pairColumns = `id, symbol, base_currency, quote_currency, rate, change, change_percent, margin, updated_at`

func (p *Postgres) ListCurrencyPairs(ctx context.Context) ([]model.CurrencyPair, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+pairColumns+` FROM currency_pairs ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list currency pairs: %w", err)
	}
	defer rows.Close()

	var out []model.CurrencyPair
	for rows.Next() {
		var cp model.CurrencyPair
		if err := scanPair(rows, &cp); err != nil {
			return nil, fmt.Errorf("scan currency pair: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (p *Postgres) GetCurrencyPairByID(ctx context.Context, id int64) (model.CurrencyPair, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+pairColumns+` FROM currency_pairs WHERE id = $1`, id)
	return getPair(row)
}

func (p *Postgres) GetCurrencyPairBySymbol(ctx context.Context, symbol string) (model.CurrencyPair, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+pairColumns+` FROM currency_pairs WHERE symbol = $1`, symbol)
	return getPair(row)
}

func getPair(row pgx.Row) (model.CurrencyPair, error) {
	var cp model.CurrencyPair
	err := scanPair(row, &cp)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CurrencyPair{}, ErrNotFound
	}
	if err != nil {
		return model.CurrencyPair{}, fmt.Errorf("get currency pair: %w", err)
	}
	return cp, nil
}

func (p *Postgres) UpsertCurrencyPair(ctx context.Context, cp model.CurrencyPair) (model.CurrencyPair, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO currency_pairs (symbol, base_currency, quote_currency, rate, change, change_percent, margin, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (symbol) DO UPDATE SET
			base_currency = EXCLUDED.base_currency,
			quote_currency = EXCLUDED.quote_currency,
			rate = EXCLUDED.rate,
			change = EXCLUDED.change,
			change_percent = EXCLUDED.change_percent,
			margin = EXCLUDED.margin,
			updated_at = now()
		RETURNING `+pairColumns,
		cp.Symbol, cp.BaseCurrency, cp.QuoteCurrency, cp.Rate, cp.Change, cp.ChangePercent, cp.Margin,
	)

	var saved model.CurrencyPair
	if err := scanPair(row, &saved); err != nil {
		return model.CurrencyPair{}, fmt.Errorf("upsert currency pair %s: %w", cp.Symbol, err)
	}
	return saved, nil
}

func (p *Postgres) UpdateCurrencyMargin(ctx context.Context, symbol string, margin decimal.Decimal) error {
	// Zero rows affected means the symbol is absent; deliberately not an error.
	_, err := p.pool.Exec(ctx,
		`UPDATE currency_pairs SET margin = $2, updated_at = now() WHERE symbol = $1`,
		symbol, margin,
	)
	if err != nil {
		return fmt.Errorf("update margin %s: %w", symbol, err)
	}
	return nil
}

func scanPair(row pgx.Row, cp *model.CurrencyPair) error {
	return row.Scan(&cp.ID, &cp.Symbol, &cp.BaseCurrency, &cp.QuoteCurrency,
		&cp.Rate, &cp.Change, &cp.ChangePercent, &cp.Margin, &cp.UpdatedAt)
}

// -----------------------------------------------------------------------------
// Market indices
// -----------------------------------------------------------------------------

const indexColumns = `id, name, symbol, value, change, change_percent, updated_at`

func (p *Postgres) ListIndices(ctx context.Context) ([]model.MarketIndex, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+indexColumns+` FROM market_indices ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	defer rows.Close()

	var out []model.MarketIndex
	for rows.Next() {
		var idx model.MarketIndex
		if err := scanIndex(rows, &idx); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (p *Postgres) GetIndexByID(ctx context.Context, id int64) (model.MarketIndex, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+indexColumns+` FROM market_indices WHERE id = $1`, id)
	return getIndex(row)
}

func (p *Postgres) GetIndexByName(ctx context.Context, name string) (model.MarketIndex, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+indexColumns+` FROM market_indices WHERE name = $1`, name)
	return getIndex(row)
}

func getIndex(row pgx.Row) (model.MarketIndex, error) {
	var idx model.MarketIndex
	err := scanIndex(row, &idx)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MarketIndex{}, ErrNotFound
	}
	if err != nil {
		return model.MarketIndex{}, fmt.Errorf("get index: %w", err)
	}
	return idx, nil
}

func (p *Postgres) UpsertIndex(ctx context.Context, idx model.MarketIndex) (model.MarketIndex, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO market_indices (name, symbol, value, change, change_percent, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (name) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			value = EXCLUDED.value,
			change = EXCLUDED.change,
			change_percent = EXCLUDED.change_percent,
			updated_at = now()
		RETURNING `+indexColumns,
		idx.Name, idx.Symbol, idx.Value, idx.Change, idx.ChangePercent,
	)

	var saved model.MarketIndex
	if err := scanIndex(row, &saved); err != nil {
		return model.MarketIndex{}, fmt.Errorf("upsert index %s: %w", idx.Name, err)
	}
	return saved, nil
}

func scanIndex(row pgx.Row, idx *model.MarketIndex) error {
	return row.Scan(&idx.ID, &idx.Name, &idx.Symbol, &idx.Value, &idx.Change, &idx.ChangePercent, &idx.UpdatedAt)
}

// -----------------------------------------------------------------------------
// News
// -----------------------------------------------------------------------------

func (p *Postgres) ListNews(ctx context.Context, limit int) ([]model.NewsArticle, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, title, summary, content, source, image_url, published_at, created_at
		FROM news_articles
		ORDER BY published_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	var out []model.NewsArticle
	for rows.Next() {
		var a model.NewsArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.Source,
			&a.ImageURL, &a.PublishedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan news article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertNews(ctx context.Context, a model.NewsArticle) (model.NewsArticle, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO news_articles (title, summary, content, source, image_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, summary, content, source, image_url, published_at, created_at`,
		a.Title, a.Summary, a.Content, a.Source, a.ImageURL, a.PublishedAt,
	)

	var saved model.NewsArticle
	if err := row.Scan(&saved.ID, &saved.Title, &saved.Summary, &saved.Content,
		&saved.Source, &saved.ImageURL, &saved.PublishedAt, &saved.CreatedAt); err != nil {
		return model.NewsArticle{}, fmt.Errorf("insert news: %w", err)
	}
	return saved, nil
}

// -----------------------------------------------------------------------------
// Favorites
// -----------------------------------------------------------------------------

func (p *Postgres) ListFavorites(ctx context.Context, userID string) ([]model.UserFavorite, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, item_type, item_id, created_at
		FROM user_favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []model.UserFavorite
	for rows.Next() {
		var f model.UserFavorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ItemType, &f.ItemID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Postgres) AddFavorite(ctx context.Context, f model.UserFavorite) (model.UserFavorite, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO user_favorites (user_id, item_type, item_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, item_type, item_id, created_at`,
		f.UserID, f.ItemType, f.ItemID,
	)

	var saved model.UserFavorite
	if err := row.Scan(&saved.ID, &saved.UserID, &saved.ItemType, &saved.ItemID, &saved.CreatedAt); err != nil {
		return model.UserFavorite{}, fmt.Errorf("add favorite: %w", err)
	}
	return saved, nil
}

func (p *Postgres) RemoveFavorite(ctx context.Context, userID, itemType, itemID string) error {
	// Deletes every row matching the triple; zero matches is fine.
	_, err := p.pool.Exec(ctx, `
		DELETE FROM user_favorites
		WHERE user_id = $1 AND item_type = $2 AND item_id = $3`,
		userID, itemType, itemID,
	)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

const userColumns = `id, email, first_name, last_name, avatar_url, role, created_at, updated_at`

func (p *Postgres) GetUser(ctx context.Context, id string) (model.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	var u model.User
	err := scanUser(row, &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (p *Postgres) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	// An empty incoming role keeps the stored role on update and defaults to
	// "user" on insert, so repeated logins never demote an admin.
	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'user'))
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			avatar_url = EXCLUDED.avatar_url,
			role = COALESCE(NULLIF($6, ''), users.role),
			updated_at = now()
		RETURNING `+userColumns,
		u.ID, u.Email, u.FirstName, u.LastName, u.AvatarURL, u.Role,
	)

	var saved model.User
	if err := scanUser(row, &saved); err != nil {
		return model.User{}, fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return saved, nil
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
}

// -----------------------------------------------------------------------------
// Nullable decimal helpers
// -----------------------------------------------------------------------------

func nullDec(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

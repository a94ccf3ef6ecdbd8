package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/model"
)

// Compile-time check that Memory implements Store.
var _ Store = (*Memory)(nil)

// Memory is an in-process Store with the same contract as Postgres. It backs
// the "memory" storage driver (demo mode, no database) and the behavior tests.
type Memory struct {
	mu        sync.RWMutex
	stocks    map[string]model.Stock        // symbol -> stock
	pairs     map[string]model.CurrencyPair // symbol -> pair
	indices   map[string]model.MarketIndex  // name -> index
	news      []model.NewsArticle
	favorites []model.UserFavorite
	users     map[string]model.User // subject -> user
	nextID    int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		stocks:  make(map[string]model.Stock),
		pairs:   make(map[string]model.CurrencyPair),
		indices: make(map[string]model.MarketIndex),
		users:   make(map[string]model.User),
	}
}

// Ping always succeeds; the memory store cannot be unreachable.
func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) genID() int64 {
	m.nextID++
	return m.nextID
}

/* ---- Stocks ---- */

func (m *Memory) ListStocks(ctx context.Context) ([]model.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetStockByID(ctx context.Context, id int64) (model.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.stocks {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Stock{}, ErrNotFound
}

func (m *Memory) GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stocks[symbol]
	if !ok {
		return model.Stock{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) UpsertStock(ctx context.Context, s model.Stock) (model.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.stocks[s.Symbol]; ok {
		s.ID = existing.ID
	} else {
		s.ID = m.genID()
	}
	s.UpdatedAt = time.Now()
	m.stocks[s.Symbol] = s
	return s, nil
}

/* ---- Currency pairs ---- */

func (m *Memory) ListCurrencyPairs(ctx context.Context) ([]model.CurrencyPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.CurrencyPair, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetCurrencyPairByID(ctx context.Context, id int64) (model.CurrencyPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.pairs {
		if p.ID == id {
			return p, nil
		}
	}
	return model.CurrencyPair{}, ErrNotFound
}

func (m *Memory) GetCurrencyPairBySymbol(ctx context.Context, symbol string) (model.CurrencyPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pairs[symbol]
	if !ok {
		return model.CurrencyPair{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) UpsertCurrencyPair(ctx context.Context, p model.CurrencyPair) (model.CurrencyPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.pairs[p.Symbol]; ok {
		p.ID = existing.ID
	} else {
		p.ID = m.genID()
	}
	p.UpdatedAt = time.Now()
	m.pairs[p.Symbol] = p
	return p, nil
}

func (m *Memory) UpdateCurrencyMargin(ctx context.Context, symbol string, margin decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pairs[symbol]
	if !ok {
		// Fire-and-forget contract: absent symbol is a silent no-op.
		return nil
	}
	p.Margin = margin
	p.UpdatedAt = time.Now()
	m.pairs[symbol] = p
	return nil
}

/* ---- Market indices ---- */

func (m *Memory) ListIndices(ctx context.Context) ([]model.MarketIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.MarketIndex, 0, len(m.indices))
	for _, idx := range m.indices {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetIndexByID(ctx context.Context, id int64) (model.MarketIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, idx := range m.indices {
		if idx.ID == id {
			return idx, nil
		}
	}
	return model.MarketIndex{}, ErrNotFound
}

func (m *Memory) GetIndexByName(ctx context.Context, name string) (model.MarketIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indices[name]
	if !ok {
		return model.MarketIndex{}, ErrNotFound
	}
	return idx, nil
}

func (m *Memory) UpsertIndex(ctx context.Context, idx model.MarketIndex) (model.MarketIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.indices[idx.Name]; ok {
		idx.ID = existing.ID
	} else {
		idx.ID = m.genID()
	}
	idx.UpdatedAt = time.Now()
	m.indices[idx.Name] = idx
	return idx, nil
}

/* ---- News ---- */

func (m *Memory) ListNews(ctx context.Context, limit int) ([]model.NewsArticle, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.NewsArticle, len(m.news))
	copy(out, m.news)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) InsertNews(ctx context.Context, a model.NewsArticle) (model.NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = m.genID()
	a.CreatedAt = time.Now()
	if a.PublishedAt.IsZero() {
		a.PublishedAt = a.CreatedAt
	}
	m.news = append(m.news, a)
	return a, nil
}

/* ---- Favorites ---- */

func (m *Memory) ListFavorites(ctx context.Context, userID string) ([]model.UserFavorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.UserFavorite
	for _, f := range m.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) AddFavorite(ctx context.Context, f model.UserFavorite) (model.UserFavorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// No dedup on insert; remove deletes all matching rows at once.
	f.ID = m.genID()
	f.CreatedAt = time.Now()
	m.favorites = append(m.favorites, f)
	return f, nil
}

func (m *Memory) RemoveFavorite(ctx context.Context, userID, itemType, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.favorites[:0]
	for _, f := range m.favorites {
		if f.UserID == userID && f.ItemType == itemType && f.ItemID == itemID {
			continue
		}
		kept = append(kept, f)
	}
	m.favorites = kept
	return nil
}

/* ---- Users ---- */

func (m *Memory) GetUser(ctx context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if existing, ok := m.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
		if u.Role == "" {
			u.Role = existing.Role
		}
	} else {
		u.CreatedAt = now
		if u.Role == "" {
			u.Role = model.RoleUser
		}
	}
	u.UpdatedAt = now
	m.users[u.ID] = u
	return u, nil
}

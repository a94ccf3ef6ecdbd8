package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/auth"
	"github.com/talankisai/financehub-fullstack/internal/model"
)

const maxNewsLimit = 100

// -----------------------------------------------------------------------------
// Health
// -----------------------------------------------------------------------------

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]any{
		"status":  status,
		"clients": s.hub.ClientCount(),
	})
}

// -----------------------------------------------------------------------------
// Market data
// -----------------------------------------------------------------------------

func (s *Server) handleListIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := s.store.ListIndices(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(indices))
}

func (s *Server) handleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.store.ListStocks(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(stocks))
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "stock id must be numeric")
		return
	}

	stock, err := s.store.GetStockByID(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	pairs, err := s.store.ListCurrencyPairs(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(pairs))
}

func (s *Server) handleUpdateMargin(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	var body struct {
		Margin *decimal.Decimal `json:"margin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "margin must be a number")
		return
	}
	if body.Margin == nil {
		writeError(w, http.StatusBadRequest, "margin is required")
		return
	}
	if body.Margin.IsNegative() {
		writeError(w, http.StatusBadRequest, "margin must be non-negative")
		return
	}

	// Fire-and-forget at the store: an absent symbol is still a 200.
	if err := s.store.UpdateCurrencyMargin(r.Context(), symbol, *body.Margin); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"symbol": symbol, "margin": body.Margin.String()})
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	limit := 0 // store applies the default
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxNewsLimit {
			n = maxNewsLimit
		}
		limit = n
	}

	news, err := s.store.ListNews(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(news))
}

// -----------------------------------------------------------------------------
// Favorites
// -----------------------------------------------------------------------------

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	favs, err := s.store.ListFavorites(r.Context(), id.Subject)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(favs))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	var body struct {
		ItemType string `json:"itemType"`
		ItemID   string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.ItemType == "" || body.ItemID == "" {
		writeError(w, http.StatusBadRequest, "itemType and itemId are required")
		return
	}
	if !model.ValidItemType(body.ItemType) {
		writeError(w, http.StatusBadRequest, "itemType must be one of stock, currency, news")
		return
	}

	fav, err := s.store.AddFavorite(r.Context(), model.UserFavorite{
		UserID:   id.Subject,
		ItemType: body.ItemType,
		ItemID:   body.ItemID,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	// 200 whether or not any row matched.
	err := s.store.RemoveFavorite(r.Context(), id.Subject, r.PathValue("itemType"), r.PathValue("itemId"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

// handleLogin is the upsert-on-login hook: the identity provider has already
// authenticated the caller, this persists or refreshes the profile.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if !id.Authenticated() {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if id.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := s.store.UpsertUser(r.Context(), id.User())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/talankisai/financehub-fullstack/internal/auth"
	"github.com/talankisai/financehub-fullstack/internal/hub"
	"github.com/talankisai/financehub-fullstack/internal/model"
	"github.com/talankisai/financehub-fullstack/internal/snapshot"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	h := hub.New(hub.Config{Interval: time.Second, WriteTimeout: time.Second}, snapshot.NewAssembler(m), nil)
	t.Cleanup(func() { h.Shutdown(context.Background()) })
	return New(m, h, nil), m
}

func doJSON(t *testing.T, s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func asUser(sub string) map[string]string {
	return map[string]string{auth.HeaderSubject: sub, auth.HeaderEmail: sub + "@example.com"}
}

func asAdmin(sub string) map[string]string {
	h := asUser(sub)
	h[auth.HeaderRole] = "admin"
	return h
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestListStocks(t *testing.T) {
	s, m := newTestServer(t)
	m.UpsertStock(context.Background(), model.Stock{Symbol: "AAPL", Name: "Apple Inc.", Price: dec("175.43")})

	w := doJSON(t, s, "GET", "/stocks", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stocks []model.Stock
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "AAPL" {
		t.Errorf("stocks = %+v, want one AAPL row", stocks)
	}
}

func TestListStocks_EmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, "GET", "/stocks", "", nil)
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("empty list body = %q, want []", got)
	}
}

func TestGetStock(t *testing.T) {
	s, m := newTestServer(t)
	saved, _ := m.UpsertStock(context.Background(), model.Stock{Symbol: "AAPL", Name: "Apple Inc.", Price: dec("175.43")})

	w := doJSON(t, s, "GET", "/stocks/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got model.Stock
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != saved.ID || got.Symbol != "AAPL" {
		t.Errorf("stock = %+v, want id=%d symbol=AAPL", got, saved.ID)
	}

	if w := doJSON(t, s, "GET", "/stocks/999", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("absent id status = %d, want 404", w.Code)
	}
	if w := doJSON(t, s, "GET", "/stocks/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", w.Code)
	}
}

func TestUpdateMargin(t *testing.T) {
	s, m := newTestServer(t)
	ctx := context.Background()
	m.UpsertCurrencyPair(ctx, model.CurrencyPair{
		Symbol: "EUR/USD", BaseCurrency: "EUR", QuoteCurrency: "USD",
		Rate: dec("1.084500"), Margin: dec("0.25"),
	})

	target := "/currencies/EUR%2FUSD/margin"

	if w := doJSON(t, s, "PUT", target, `{"margin": 0.50}`, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}
	if w := doJSON(t, s, "PUT", target, `{"margin": 0.50}`, asUser("u1")); w.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", w.Code)
	}
	if w := doJSON(t, s, "PUT", target, `{}`, asAdmin("a1")); w.Code != http.StatusBadRequest {
		t.Errorf("missing margin status = %d, want 400", w.Code)
	}
	if w := doJSON(t, s, "PUT", target, `{"margin": -0.1}`, asAdmin("a1")); w.Code != http.StatusBadRequest {
		t.Errorf("negative margin status = %d, want 400", w.Code)
	}
	if w := doJSON(t, s, "PUT", target, `{"margin": "abc"}`, asAdmin("a1")); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric margin status = %d, want 400", w.Code)
	}

	if w := doJSON(t, s, "PUT", target, `{"margin": 0.50}`, asAdmin("a1")); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body)
	}

	got, _ := m.GetCurrencyPairBySymbol(ctx, "EUR/USD")
	if !got.Margin.Equal(dec("0.50")) {
		t.Errorf("margin = %s, want 0.50", got.Margin)
	}
	if !got.Rate.Equal(dec("1.084500")) {
		t.Errorf("rate = %s, want unchanged", got.Rate)
	}

	// Absent symbol: fire-and-forget, still 200.
	if w := doJSON(t, s, "PUT", "/currencies/GBP%2FJPY/margin", `{"margin": 0.10}`, asAdmin("a1")); w.Code != http.StatusOK {
		t.Errorf("absent symbol status = %d, want 200", w.Code)
	}
}

func TestListNews_Limit(t *testing.T) {
	s, m := newTestServer(t)
	ctx := context.Background()
	for i := 0; i < 30; i++ {
		m.InsertNews(ctx, model.NewsArticle{Title: "t", Summary: "s", Source: "wire"})
	}

	w := doJSON(t, s, "GET", "/news?limit=5", "", nil)
	var news []model.NewsArticle
	json.Unmarshal(w.Body.Bytes(), &news)
	if len(news) != 5 {
		t.Errorf("news = %d, want 5", len(news))
	}

	w = doJSON(t, s, "GET", "/news", "", nil)
	news = nil
	json.Unmarshal(w.Body.Bytes(), &news)
	if len(news) != store.DefaultNewsLimit {
		t.Errorf("default news = %d, want %d", len(news), store.DefaultNewsLimit)
	}

	if w := doJSON(t, s, "GET", "/news?limit=abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
	if w := doJSON(t, s, "GET", "/news?limit=0", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("zero limit status = %d, want 400", w.Code)
	}
}

func TestFavorites_Flow(t *testing.T) {
	s, _ := newTestServer(t)

	if w := doJSON(t, s, "GET", "/favorites", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d, want 401", w.Code)
	}
	if w := doJSON(t, s, "POST", "/favorites", `{"itemType":"stock"}`, asUser("u1")); w.Code != http.StatusBadRequest {
		t.Errorf("missing itemId status = %d, want 400", w.Code)
	}
	if w := doJSON(t, s, "POST", "/favorites", `{"itemType":"bond","itemId":"X"}`, asUser("u1")); w.Code != http.StatusBadRequest {
		t.Errorf("unknown itemType status = %d, want 400", w.Code)
	}

	w := doJSON(t, s, "POST", "/favorites", `{"itemType":"stock","itemId":"AAPL"}`, asUser("u1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}
	var fav model.UserFavorite
	json.Unmarshal(w.Body.Bytes(), &fav)
	if fav.UserID != "u1" || fav.ItemID != "AAPL" {
		t.Errorf("favorite = %+v, want owned by u1 for AAPL", fav)
	}

	w = doJSON(t, s, "GET", "/favorites", "", asUser("u1"))
	var favs []model.UserFavorite
	json.Unmarshal(w.Body.Bytes(), &favs)
	if len(favs) != 1 {
		t.Fatalf("favorites = %d, want 1", len(favs))
	}

	// Another user sees nothing.
	w = doJSON(t, s, "GET", "/favorites", "", asUser("u2"))
	favs = nil
	json.Unmarshal(w.Body.Bytes(), &favs)
	if len(favs) != 0 {
		t.Errorf("other user's favorites = %d, want 0", len(favs))
	}

	if w := doJSON(t, s, "DELETE", "/favorites/stock/AAPL", "", asUser("u1")); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}
	// Deleting again still succeeds.
	if w := doJSON(t, s, "DELETE", "/favorites/stock/AAPL", "", asUser("u1")); w.Code != http.StatusOK {
		t.Errorf("repeat delete status = %d, want 200", w.Code)
	}
}

func TestLogin_UpsertsUser(t *testing.T) {
	s, m := newTestServer(t)

	if w := doJSON(t, s, "POST", "/auth/login", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous login status = %d, want 401", w.Code)
	}

	w := doJSON(t, s, "POST", "/auth/login", "", asUser("sub-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", w.Code)
	}
	var u model.User
	json.Unmarshal(w.Body.Bytes(), &u)
	if u.Role != model.RoleUser {
		t.Errorf("role = %q, want default %q", u.Role, model.RoleUser)
	}

	// Promote out of band, then log in again without a role header.
	m.UpsertUser(context.Background(), model.User{ID: "sub-1", Email: "sub-1@example.com", Role: model.RoleAdmin})
	w = doJSON(t, s, "POST", "/auth/login", "", asUser("sub-1"))
	json.Unmarshal(w.Body.Bytes(), &u)
	if u.Role != model.RoleAdmin {
		t.Errorf("role after re-login = %q, want %q (no silent demotion)", u.Role, model.RoleAdmin)
	}
}

func TestAdminUsers(t *testing.T) {
	s, m := newTestServer(t)
	m.UpsertUser(context.Background(), model.User{ID: "sub-1", Email: "a@example.com"})

	if w := doJSON(t, s, "GET", "/admin/users", "", asUser("u1")); w.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", w.Code)
	}

	w := doJSON(t, s, "GET", "/admin/users", "", asAdmin("a1"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var users []model.User
	json.Unmarshal(w.Body.Bytes(), &users)
	if len(users) != 1 {
		t.Errorf("users = %d, want 1", len(users))
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestWS_FirstSnapshotOnConnect(t *testing.T) {
	s, m := newTestServer(t)
	m.UpsertStock(context.Background(), model.Stock{Symbol: "AAPL", Name: "Apple Inc.", Price: dec("175.43")})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env hub.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read first envelope: %v", err)
	}

	if env.Type != hub.MessageTypeMarketUpdate {
		t.Errorf("envelope type = %q, want %q", env.Type, hub.MessageTypeMarketUpdate)
	}
	if len(env.Data.Stocks) != 1 {
		t.Errorf("snapshot stocks = %d, want 1", len(env.Data.Stocks))
	}
	if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", env.Timestamp, err)
	}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/talankisai/financehub-fullstack/internal/auth"
	"github.com/talankisai/financehub-fullstack/internal/hub"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

// Server is the HTTP adapter: the JSON request/response surface plus the
// WebSocket upgrade endpoint. All business invariants live in the store and
// the hub; handlers only validate input and map errors to status codes.
type Server struct {
	store    store.Store
	hub      *hub.Hub
	logger   *slog.Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New creates a Server and wires its routes.
func New(st store.Store, h *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  st,
		hub:    h,
		logger: logger,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// Session auth is delegated to the identity proxy; the push
			// channel itself is public read-only market data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Market data (public reads). Pair symbols like EUR/USD arrive
	// URL-escaped, so {symbol} and {itemId} stay single path segments.
	s.mux.HandleFunc("GET /market/indices", s.handleListIndices)
	s.mux.HandleFunc("GET /stocks", s.handleListStocks)
	s.mux.HandleFunc("GET /stocks/{id}", s.handleGetStock)
	s.mux.HandleFunc("GET /currencies", s.handleListCurrencies)
	s.mux.HandleFunc("PUT /currencies/{symbol}/margin", s.requireAdmin(s.handleUpdateMargin))
	s.mux.HandleFunc("GET /news", s.handleListNews)

	// User-owned
	s.mux.HandleFunc("GET /favorites", s.requireAuth(s.handleListFavorites))
	s.mux.HandleFunc("POST /favorites", s.requireAuth(s.handleAddFavorite))
	s.mux.HandleFunc("DELETE /favorites/{itemType}/{itemId}", s.requireAuth(s.handleRemoveFavorite))
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /admin/users", s.requireAdmin(s.handleListUsers))

	// Push channel
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(auth.Middleware(s.mux)))
}

package server

import (
	"errors"
	"net/http"

	"github.com/talankisai/financehub-fullstack/internal/hub"
)

// handleWS upgrades the connection and hands it to the hub, which pushes the
// first snapshot immediately and then one per interval. The read loop here
// only watches for the client going away; inbound frames are discarded.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	wsConn := hub.NewWSConn(conn)
	id, err := s.hub.Register(wsConn)
	if err != nil {
		if errors.Is(err, hub.ErrTooManyClients) {
			s.logger.Warn("push client rejected", "error", err)
		}
		wsConn.Close()
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.Unregister(id)
}

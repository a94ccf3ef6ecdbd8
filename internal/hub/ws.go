package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Compile-time check that WSConn implements Conn.
var _ Conn = (*WSConn)(nil)

// WSConn adapts a gorilla websocket connection to the Conn interface. Writes
// are serialized with a mutex; gorilla permits one concurrent writer only.
type WSConn struct {
	conn *websocket.Conn

	mu     sync.Mutex
	broken bool
	closed bool
}

// NewWSConn wraps an upgraded websocket connection.
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

// WriteText sends one text frame. A failed write marks the transport broken
// so subsequent ticks skip it.
func (w *WSConn) WriteText(data []byte, deadline time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.broken {
		return websocket.ErrCloseSent
	}

	w.conn.SetWriteDeadline(deadline)
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		w.broken = true
		return err
	}
	return nil
}

// Ready reports whether the transport can still accept a send.
func (w *WSConn) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && !w.broken
}

// Close sends a close frame and tears down the underlying connection.
func (w *WSConn) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return w.conn.Close()
}

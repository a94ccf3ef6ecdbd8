package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub owns the registry of live push connections. Every connection drives its
// own snapshot loop: one push immediately on register, then one per interval.
// Connections are fully independent; staggered connects produce staggered
// push times.
type Hub struct {
	cfg       Config
	assembler Assembler
	logger    *slog.Logger

	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool

	wg sync.WaitGroup
}

// client is one registered connection with its own timer lifecycle.
type client struct {
	id   uuid.UUID
	conn Conn

	// done transitions the push loop to Closing. Closing it is the only
	// signal; the loop stops its own ticker before any other teardown step.
	done      chan struct{}
	closeOnce sync.Once
}

func (c *client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// New creates a Hub.
func New(cfg Config, assembler Assembler, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:       cfg,
		assembler: assembler,
		logger:    logger,
		clients:   make(map[uuid.UUID]*client),
	}
}

// Register adds a connection and starts its push loop. The first snapshot is
// pushed immediately; no acknowledgement round-trip is required.
func (h *Hub) Register(conn Conn) (uuid.UUID, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return uuid.Nil, ErrHubClosed
	}
	if h.cfg.MaxClients > 0 && len(h.clients) >= h.cfg.MaxClients {
		h.mu.Unlock()
		return uuid.Nil, ErrTooManyClients
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		done: make(chan struct{}),
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	h.wg.Add(1)
	go h.pushLoop(c)

	h.logger.Info("push client connected", "client_id", c.id)
	return c.id, nil
}

// Unregister closes the connection with the given id. Unknown ids are
// ignored; the caller may race with a transport-error teardown.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	h.mu.Unlock()

	if ok {
		c.shutdown()
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown closes every connection and waits for all push loops to finish.
// Each loop cancels its own timer first, so no timer outlives shutdown.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.shutdown()
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("push hub stopped")
		return nil
	case <-ctx.Done():
		h.logger.Warn("push hub shutdown timed out")
		return ctx.Err()
	}
}

// pushLoop drives one connection: immediate first push, then a fixed-cadence
// ticker. Ticks fire on wall-clock intervals regardless of how long the
// previous assembly took; snapshots are full-state replacements, so an
// overlap from a slow tick is harmless.
func (h *Hub) pushLoop(c *client) {
	defer h.wg.Done()
	defer h.remove(c)

	// Tick 0: the connection just completed its handshake.
	if err := h.push(c); err != nil {
		return
	}

	ticker := time.NewTicker(h.cfg.Interval)
	// LIFO defers: the ticker stops before remove() touches the transport.
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if !c.conn.Ready() {
				continue
			}
			if err := h.push(c); err != nil {
				return
			}
		}
	}
}

// push assembles and sends one snapshot. An assembly failure logs and skips
// the tick without touching the connection; only a transport write failure
// returns an error and tears the connection down.
func (h *Hub) push(c *client) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Interval)
	defer cancel()

	snap, err := h.assembler.Assemble(ctx)
	if err != nil {
		h.logger.Error("snapshot assembly failed, skipping tick", "client_id", c.id, "error", err)
		return nil
	}

	data, err := json.Marshal(Envelope{
		Type:      MessageTypeMarketUpdate,
		Data:      snap,
		Timestamp: snap.CapturedAt.Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("snapshot marshal failed, skipping tick", "client_id", c.id, "error", err)
		return nil
	}

	if err := c.conn.WriteText(data, time.Now().Add(h.cfg.WriteTimeout)); err != nil {
		h.logger.Debug("push write failed, closing connection", "client_id", c.id, "error", err)
		return err
	}
	return nil
}

// remove drops the client from the registry and closes its transport. Runs
// after the loop's ticker has already been stopped.
func (h *Hub) remove(c *client) {
	c.shutdown()

	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		h.logger.Debug("transport close", "client_id", c.id, "error", err)
	}
	h.logger.Info("push client disconnected", "client_id", c.id)
}

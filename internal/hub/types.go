package hub

import (
	"context"
	"errors"
	"time"

	"github.com/talankisai/financehub-fullstack/internal/snapshot"
)

// Errors
var (
	ErrHubClosed      = errors.New("hub closed")
	ErrTooManyClients = errors.New("too many clients")
)

// MessageTypeMarketUpdate tags the periodic snapshot envelope.
const MessageTypeMarketUpdate = "market_update"

// Envelope is the tagged message pushed on every tick.
type Envelope struct {
	Type      string            `json:"type"`
	Data      snapshot.Snapshot `json:"data"`
	Timestamp string            `json:"timestamp"` // ISO-8601 capture time
}

// Conn is a single client transport. Implementations must tolerate WriteText
// and Close being called from different goroutines.
type Conn interface {
	// WriteText sends one text frame, honoring the deadline.
	WriteText(data []byte, deadline time.Time) error

	// Ready reports whether the transport can still accept a send. A stale
	// connection is skipped at tick time, not queued.
	Ready() bool

	// Close tears down the transport.
	Close() error
}

// Assembler yields the snapshot pushed on each tick. Satisfied by
// snapshot.Assembler.
type Assembler interface {
	Assemble(ctx context.Context) (snapshot.Snapshot, error)
}

// Config holds push loop settings.
type Config struct {
	Interval     time.Duration // Cadence per connection
	WriteTimeout time.Duration // Per-frame write deadline
	MaxClients   int           // 0 = unlimited
}

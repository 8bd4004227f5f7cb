package gateway

import (
	"sync"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/transport"
)

// Forwarder is a pure message forwarder: it remembers which connection a
// request arrived on (keyed by correlation id) so the eventual reply can
// be routed back, without inspecting or altering the payload beyond the
// header fields routing requires.
type Forwarder struct {
	mu     sync.Mutex
	origin map[uuid.UUID]*Connection
}

// NewForwarder constructs an empty Forwarder.
func NewForwarder() *Forwarder {
	return &Forwarder{origin: make(map[uuid.UUID]*Connection)}
}

// Route remembers that a request with this correlation id arrived from
// origin, so ReplyRoute can find its way back.
func (f *Forwarder) Route(correlation uuid.UUID, origin *Connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.origin[correlation] = origin
}

// ReplyRoute looks up (and forgets) the connection a reply with this
// correlation id should be sent back on.
func (f *Forwarder) ReplyRoute(correlation uuid.UUID) (*Connection, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.origin[correlation]
	delete(f.origin, correlation)
	return c, ok
}

// ForwardRequest sends msg on dest, preserving its correlation and
// execution ids.
func (f *Forwarder) ForwardRequest(dest *Connection, msg transport.Message) bool {
	return dest.outbound.TrySend(msg)
}

// Unroute forgets a correlation without sending a reply, used when the
// owning connection is lost.
func (f *Forwarder) Unroute(correlation uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.origin, correlation)
}

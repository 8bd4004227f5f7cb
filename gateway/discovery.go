package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/errors"
)

// DiscoverRequest is fanned out on every outbound connection when a
// local lookup misses.
type DiscoverRequest struct {
	Services []string
	Queues   []string
}

// DiscoverReply is one connection's answer: the subset of the requested
// services/queues it can serve, plus the hop count to reach them.
type DiscoverReply struct {
	From     *Connection
	Services []string
	Queues   []string
	Hops     int
}

// pendingDiscovery accumulates replies for one correlation id across
// every connection it was fanned out to.
type pendingDiscovery struct {
	expected int
	replies  []DiscoverReply
	done     chan []DiscoverReply
}

// Discovery fans discover{} requests out across every outbound
// connection and consolidates replies per correlation id.
type Discovery struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*pendingDiscovery
	timeout time.Duration
}

// NewDiscovery constructs a Discovery coordinator with the given
// per-request accumulation timeout.
func NewDiscovery(timeout time.Duration) *Discovery {
	return &Discovery{pending: make(map[uuid.UUID]*pendingDiscovery), timeout: timeout}
}

// Discover fans req out on every connection in conns, correlates replies
// by correlation, and blocks (up to Discovery's timeout) for all of them
// before returning the consolidated list.
func (d *Discovery) Discover(correlation uuid.UUID, conns []*Connection, req DiscoverRequest, send func(*Connection, uuid.UUID, DiscoverRequest) error) ([]DiscoverReply, error) {
	if len(conns) == 0 {
		return nil, nil
	}

	done := make(chan []DiscoverReply, 1)
	d.mu.Lock()
	d.pending[correlation] = &pendingDiscovery{expected: len(conns), done: done}
	d.mu.Unlock()

	for _, c := range conns {
		if err := send(c, correlation, req); err != nil {
			d.HandleReply(correlation, DiscoverReply{From: c})
		}
	}

	select {
	case replies := <-done:
		return replies, nil
	case <-time.After(d.timeout):
		d.mu.Lock()
		p, ok := d.pending[correlation]
		delete(d.pending, correlation)
		d.mu.Unlock()
		if !ok {
			return nil, errors.Newf("gateway: discovery %s already completed", correlation)
		}
		return p.replies, nil // partial results on timeout, not an error
	}
}

// HandleReply records one connection's discovery reply, completing and
// delivering the consolidated set once every fanned-out connection has
// answered.
func (d *Discovery) HandleReply(correlation uuid.UUID, reply DiscoverReply) {
	d.mu.Lock()
	p, ok := d.pending[correlation]
	if !ok {
		d.mu.Unlock()
		return
	}
	p.replies = append(p.replies, reply)
	complete := len(p.replies) >= p.expected
	if complete {
		delete(d.pending, correlation)
	}
	d.mu.Unlock()

	if complete {
		p.done <- p.replies
	}
}

// Package gateway implements the Gateway: the four connection roles
// over TCP, domain_connect version negotiation, cross-domain
// service/queue discovery, priority-band routing, and connection-loss
// handling. Framing and header encode/decode are delegated to the
// transport package (network byte order); this package owns connection
// lifecycle, the outbound-group priority model, and discovery fan-out,
// adapted from a gRPC-plugin-style discovery/remote-registry shape to
// raw framed TCP peer connections.
package gateway

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/transport"
)

// Role classifies a connection by who initiated the TCP handshake and
// which direction it serves traffic: the NAT/firewall
// symmetry trick is outbound-reverse/inbound-reverse swapping which
// side calls Dial vs Listen while keeping the traffic direction fixed.
type Role int

const (
	RoleOutboundRegular Role = iota
	RoleOutboundReverse
	RoleInboundRegular
	RoleInboundReverse
)

func (r Role) String() string {
	switch r {
	case RoleOutboundRegular:
		return "outbound-regular"
	case RoleOutboundReverse:
		return "outbound-reverse"
	case RoleInboundRegular:
		return "inbound-regular"
	case RoleInboundReverse:
		return "inbound-reverse"
	default:
		return "unknown"
	}
}

// Connection is one peer TCP link, framed with the transport package's
// network codec.
type Connection struct {
	mu sync.Mutex

	conn      net.Conn
	role      Role
	remoteID  string
	version   string
	codec     transport.Codec
	reasm     *transport.Reassembler
	outbound  *transport.Queue
	services  map[string]struct{} // whitelist; empty means "all"
	queues    map[string]struct{}
	closed    bool
	closedAt  time.Time
}

// NewConnection wraps an established net.Conn (already past TCP
// accept/connect) for framed message exchange.
func NewConnection(conn net.Conn, role Role) *Connection {
	return &Connection{
		conn:     conn,
		role:     role,
		codec:    transport.NetworkCodec{},
		reasm:    transport.NewReassembler(),
		outbound: transport.NewQueue(256),
	}
}

// RemoteID reports the peer domain id negotiated at handshake.
func (c *Connection) RemoteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteID
}

// Role reports which of the four connection roles this link plays.
func (c *Connection) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// Version reports the negotiated protocol version string.
func (c *Connection) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Allows reports whether this connection's whitelist permits routing
// name through it.
func (c *Connection) Allows(kind string, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	var list map[string]struct{}
	if kind == "service" {
		list = c.services
	} else {
		list = c.queues
	}
	if len(list) == 0 {
		return true
	}
	_, ok := list[name]
	return ok
}

// Close marks the connection closed and releases the socket.
func (c *Connection) Close() error {
	c.mu.Lock()
	c.closed = true
	c.closedAt = time.Now()
	c.mu.Unlock()
	return c.conn.Close()
}

// Closed reports whether Close has been called.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// InFlight is one request routed through a connection, tracked so a
// connection loss can synthesize service_error replies for everything
// still outstanding.
type InFlight struct {
	Correlation uuid.UUID
	Caller      uuid.UUID
}

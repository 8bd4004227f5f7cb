// Package transport implements the message transport and codec: a
// framed, fragmenting carrier for variable-size logical messages over a
// fixed-size datagram IPC primitive, plus the two wire layouts (local,
// host-endian; network, big-endian) a gateway connection chooses
// between based on the destination device.
package transport

import (
	"github.com/google/uuid"

	"github.com/casual-mw/casual/sym"
)

// MaxPayload bounds a single fragment's payload, matching the fixed-size
// datagram primitive every manager's inbound queue is built on.
const MaxPayload = 8192

// Header is carried in front of every fragment. Offset/Count/TotalSize let
// a receiver reassemble out-of-order fragments of one logical message.
type Header struct {
	Type        sym.MessageType
	Correlation uuid.UUID
	Execution   uuid.UUID
	Offset      uint32
	Count       uint32
	TotalSize   uint32
}

// Envelope is one fragment: a header plus its slice of the payload.
type Envelope struct {
	Header  Header
	Payload []byte
}

// Message is a fully reassembled logical message ready for a handler.
type Message struct {
	Type        sym.MessageType
	Correlation uuid.UUID
	Execution   uuid.UUID
	Payload     []byte
}

package transport

import (
	"encoding/binary"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/sym"
)

// Codec selects between the local IPC wire layout (host-endian, compact)
// and the network layout (big-endian, fixed-width) a gateway connection
// uses when crossing a domain boundary. Selection is a property of the
// destination device, not of the message type, so callers pick
// a Codec once per connection/queue rather than per message.
type Codec interface {
	EncodeHeader(h Header) []byte
	DecodeHeader(buf []byte) (Header, error)
	HeaderSize() int
}

// fixedHeaderSize is the encoded header length in bytes: the two 16-byte
// UUIDs followed by four uint32 fields (Type, Offset, Count, TotalSize).
const fixedHeaderSize = 16 + 16 + 4 + 4 + 4 + 4 // correlation + execution + type + offset + count + total

// LocalCodec is host-endian and used for same-machine IPC queues.
type LocalCodec struct{}

func (LocalCodec) HeaderSize() int { return fixedHeaderSize }

func (LocalCodec) EncodeHeader(h Header) []byte {
	return encodeHeader(h, binary.NativeEndian)
}

func (LocalCodec) DecodeHeader(buf []byte) (Header, error) {
	return decodeHeader(buf, binary.NativeEndian)
}

// NetworkCodec is big-endian, fixed-width, used across gateway TCP
// connections per 's TCP framing.
type NetworkCodec struct{}

func (NetworkCodec) HeaderSize() int { return fixedHeaderSize }

func (NetworkCodec) EncodeHeader(h Header) []byte {
	return encodeHeader(h, binary.BigEndian)
}

func (NetworkCodec) DecodeHeader(buf []byte) (Header, error) {
	return decodeHeader(buf, binary.BigEndian)
}

type byteOrder interface {
	PutUint32([]byte, uint32)
	Uint32([]byte) uint32
}

func encodeHeader(h Header, order byteOrder) []byte {
	buf := make([]byte, fixedHeaderSize)
	corr, _ := h.Correlation.MarshalBinary()
	exec, _ := h.Execution.MarshalBinary()
	copy(buf[0:16], corr)
	copy(buf[16:32], exec)
	order.PutUint32(buf[32:36], uint32(h.Type))
	order.PutUint32(buf[36:40], h.Offset)
	order.PutUint32(buf[40:44], h.Count)
	order.PutUint32(buf[44:48], h.TotalSize)
	return buf
}

func decodeHeader(buf []byte, order byteOrder) (Header, error) {
	if len(buf) < fixedHeaderSize {
		return Header{}, errors.Newf("transport: short header: %d bytes", len(buf))
	}
	var h Header
	if err := h.Correlation.UnmarshalBinary(buf[0:16]); err != nil {
		return Header{}, errors.Wrap(err, "transport: decode correlation")
	}
	if err := h.Execution.UnmarshalBinary(buf[16:32]); err != nil {
		return Header{}, errors.Wrap(err, "transport: decode execution")
	}
	h.Type = sym.MessageType(order.Uint32(buf[32:36]))
	h.Offset = order.Uint32(buf[36:40])
	h.Count = order.Uint32(buf[40:44])
	h.TotalSize = order.Uint32(buf[44:48])
	return h, nil
}

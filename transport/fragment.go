package transport

import (
	"sync"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/sym"
)

// ErrFragmentMismatch is returned when fragments of the same correlation
// disagree on TotalSize, a protocol error severe enough that the
// receiver must drop the owning connection rather than attempt
// reassembly.
var ErrFragmentMismatch = errors.New("transport: fragment size mismatch")

// Fragment splits payload into contiguous offset-tagged envelopes no
// larger than maxPayload bytes each, carrying msgType/correlation/
// execution on every fragment so a receiver can reassemble out of order.
func Fragment(msgType sym.MessageType, correlation, execution uuid.UUID, payload []byte, maxPayload int) []Envelope {
	if maxPayload <= 0 {
		maxPayload = MaxPayload
	}
	total := uint32(len(payload))
	if len(payload) == 0 {
		return []Envelope{{
			Header: Header{Type: msgType, Correlation: correlation, Execution: execution, Offset: 0, Count: 0, TotalSize: 0},
		}}
	}
	var out []Envelope
	for off := 0; off < len(payload); off += maxPayload {
		end := off + maxPayload
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]
		out = append(out, Envelope{
			Header: Header{
				Type:        msgType,
				Correlation: correlation,
				Execution:   execution,
				Offset:      uint32(off),
				Count:       uint32(len(chunk)),
				TotalSize:   total,
			},
			Payload: chunk,
		})
	}
	return out
}

// reassembly tracks one in-flight logical message.
type reassembly struct {
	typ       int32
	execution uuid.UUID
	totalSize uint32
	received  uint32
	buf       []byte
}

// Reassembler reconstructs logical messages from out-of-order fragments,
// keyed by correlation id. A receiver that sees a fragment of
// an unknown correlation allocates a new buffer; fragments may arrive in
// any order but must all declare the same TotalSize.
type Reassembler struct {
	mu      sync.Mutex
	pending map[uuid.UUID]*reassembly
}

// NewReassembler creates an empty reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{pending: make(map[uuid.UUID]*reassembly)}
}

// Add ingests one fragment. It returns (message, true, nil) once the sum of
// received counts equals TotalSize; otherwise ok is false. A mismatched
// TotalSize across fragments of the same correlation is a protocol error.
func (r *Reassembler) Add(e Envelope) (*Message, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := e.Header.Correlation
	asm, exists := r.pending[id]
	if !exists {
		asm = &reassembly{
			typ:       int32(e.Header.Type),
			execution: e.Header.Execution,
			totalSize: e.Header.TotalSize,
			buf:       make([]byte, e.Header.TotalSize),
		}
		r.pending[id] = asm
	}
	if asm.totalSize != e.Header.TotalSize {
		delete(r.pending, id)
		return nil, false, errors.Wrapf(ErrFragmentMismatch, "correlation=%s", id)
	}

	if e.Header.TotalSize == 0 {
		delete(r.pending, id)
		return &Message{Type: e.Header.Type, Correlation: id, Execution: e.Header.Execution}, true, nil
	}

	copy(asm.buf[e.Header.Offset:e.Header.Offset+e.Header.Count], e.Payload)
	asm.received += e.Header.Count

	if asm.received >= asm.totalSize {
		delete(r.pending, id)
		return &Message{
			Type:        e.Header.Type,
			Correlation: id,
			Execution:   asm.execution,
			Payload:     asm.buf,
		}, true, nil
	}
	return nil, false, nil
}

// Drop discards a partial reassembly, e.g. when a peer closes mid-message.
func (r *Reassembler) Drop(correlation uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, correlation)
}

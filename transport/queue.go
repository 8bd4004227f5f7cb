package transport

import (
	"sync"
)

// Queue is a process's single inbound message queue — the only thing a
// manager's event loop multiplexes together with, for the gateway, its TCP
// sockets. It is a buffered channel with a pending-send fallback:
// a non-blocking send is attempted first; on EAGAIN (channel full) the
// envelope is parked and retried by the sender's own loop tick, so a
// synchronous send to a slow peer can never block the caller and deadlock
// it against that peer.
type Queue struct {
	ch      chan Message
	mu      sync.Mutex
	pending []Message
}

// NewQueue creates an inbound queue with the given channel capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 256
	}
	return &Queue{ch: make(chan Message, capacity)}
}

// C exposes the channel for use in a select-based multiplexer.
func (q *Queue) C() <-chan Message { return q.ch }

// TrySend attempts a non-blocking delivery. If the queue is full the
// message is appended to the pending list and false is returned; the
// caller is expected to retry via DrainPending on its next loop tick.
func (q *Queue) TrySend(m Message) bool {
	select {
	case q.ch <- m:
		return true
	default:
		q.mu.Lock()
		q.pending = append(q.pending, m)
		q.mu.Unlock()
		return false
	}
}

// DrainPending retries parked sends in FIFO order, stopping at the first
// one that still doesn't fit so relative order is preserved.
func (q *Queue) DrainPending() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) > 0 {
		select {
		case q.ch <- q.pending[0]:
			q.pending = q.pending[1:]
		default:
			return
		}
	}
}

// PendingCount reports how many sends are currently parked.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

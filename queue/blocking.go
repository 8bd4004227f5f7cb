package queue

import (
	"context"
	"errors"

	caerr "github.com/casual-mw/casual/errors"
)

// DequeueBlocking attempts Dequeue immediately; if the queue is empty it
// parks as a waiter and retries once woken, until ctx is done.
func (s *Store) DequeueBlocking(ctx context.Context, waiters *Waiters, queueName, trid string) (*Message, error) {
	for {
		m, err := s.Dequeue(queueName, trid)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrEmpty) {
			return nil, err
		}

		woken := waiters.Register(queueName)
		select {
		case <-woken:
			continue
		case <-ctx.Done():
			waiters.Cancel(queueName, woken)
			return nil, caerr.Wrap(ctx.Err(), "queue: dequeue blocking canceled")
		}
	}
}

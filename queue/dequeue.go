package queue

import (
	"time"

	"github.com/casual-mw/casual/errors"
)

// ErrEmpty is returned by Dequeue when no message is currently available.
var ErrEmpty = errors.New("queue: empty")

// Dequeue reserves the oldest available message in queueName under trid
//. The caller's
// transaction must later call Commit (message consumed) or Rollback
// (message redelivered) on the store.
func (s *Store) Dequeue(queueName, trid string) (*Message, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "queue: begin dequeue tx")
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT id, queue, correlation, payload, available_at, redelivery_count, created_at
		 FROM messages
		 WHERE queue = ? AND state = ? AND available_at <= ?
		 ORDER BY id ASC LIMIT 1`,
		queueName, StateAvailable, now,
	)

	var m Message
	var availableAt, createdAt string
	if err := row.Scan(&m.ID, &m.Queue, &m.Correlation, &m.Payload, &availableAt, &m.RedeliveryCount, &createdAt); err != nil {
		return nil, ErrEmpty
	}
	m.AvailableAt, _ = time.Parse(time.RFC3339Nano, availableAt)
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	m.State = StateLocked
	m.TRID = trid

	if _, err := tx.Exec(`UPDATE messages SET state = ?, trid = ? WHERE id = ?`, StateLocked, trid, m.ID); err != nil {
		return nil, errors.Wrapf(err, "queue: lock message %d", m.ID)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "queue: commit dequeue reservation")
	}
	return &m, nil
}

// Consume permanently removes a message once its owning transaction has
// committed successfully.
func (s *Store) Consume(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "queue: consume message %d", id)
	}
	return nil
}

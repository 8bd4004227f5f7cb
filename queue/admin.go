package queue

import (
	"time"

	"github.com/casual-mw/casual/errors"
)

// List returns every message currently held in queueName (available,
// locked, or dead-lettered), oldest first, for admin inspection
// (`casual queue --list`).
func (s *Store) List(queueName string) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT id, queue, correlation, payload, state, available_at, redelivery_count, trid, created_at
		 FROM messages WHERE queue = ? ORDER BY id ASC`,
		queueName,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "queue: list %s", queueName)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var availableAt, createdAt string
		var trid *string
		if err := rows.Scan(&m.ID, &m.Queue, &m.Correlation, &m.Payload, &m.State, &availableAt, &m.RedeliveryCount, &trid, &createdAt); err != nil {
			return nil, errors.Wrap(err, "queue: scan listed message")
		}
		if trid != nil {
			m.TRID = *trid
		}
		m.AvailableAt, _ = time.Parse(time.RFC3339Nano, availableAt)
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, m)
	}
	return out, nil
}

// Clear permanently removes every message in queueName.
func (s *Store) Clear(queueName string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM messages WHERE queue = ?`, queueName)
	if err != nil {
		return 0, errors.Wrapf(err, "queue: clear %s", queueName)
	}
	return res.RowsAffected()
}

// Restore returns every dead-lettered message in queueName to available,
// resetting its redelivery_count.
func (s *Store) Restore(queueName string) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE messages SET state = ?, available_at = ?, redelivery_count = 0, trid = NULL
		 WHERE queue = ? AND state = 'dead'`,
		StateAvailable, time.Now().UTC().Format(time.RFC3339Nano), queueName,
	)
	if err != nil {
		return 0, errors.Wrapf(err, "queue: restore %s", queueName)
	}
	return res.RowsAffected()
}

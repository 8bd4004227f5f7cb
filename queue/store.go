// Package queue implements the Queue Group: a durable, SQLite-backed
// message store where every operation participates in the ambient XA
// transaction, plus blocking dequeue with FIFO waiters and a
// service-forward worker. Retry/redelivery bookkeeping generalizes a
// worker-pool job-retry accounting pattern from "async job" to "durable
// queue message".
package queue

import (
	"database/sql"
	"embed"
	"time"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// State is a message's lifecycle state.
type State string

const (
	StateAvailable State = "available"
	StateLocked    State = "locked" // reserved by an in-flight dequeue, pending its transaction's outcome
	StateDead      State = "dead"   // exceeded RetryPolicy.MaxRedeliveries
)

// Message is one durable queue entry.
type Message struct {
	ID              int64
	Queue           string
	Correlation     string
	Payload         []byte
	State           State
	AvailableAt     time.Time
	RedeliveryCount int
	TRID            string
	CreatedAt       time.Time
}

// RetryPolicy configures a queue's redelivery backoff.
type RetryPolicy struct {
	MaxRedeliveries int
	Delay           time.Duration
}

// Store is one queue group's durable message store.
type Store struct {
	db      *sql.DB
	waiters *Waiters
}

// Open opens (and migrates) the queue store at path.
func Open(path string) (*Store, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db, migrations, "migrations"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "queue: migrate")
	}
	return &Store{db: db}, nil
}

// SetWaiters attaches the blocking-dequeue waiter registry that Commit
// notifies when it makes messages newly visible. Optional: a Store with
// no attached registry simply skips notification.
func (s *Store) SetWaiters(w *Waiters) {
	s.waiters = w
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Enqueue inserts a message, participating in the caller-supplied
// transaction trid.
// Until that transaction commits (Commit below updates available_at
// into the past, making the row selectable), the row exists but is not
// yet eligible for dequeue.
func (s *Store) Enqueue(queueName, correlation string, payload []byte, trid string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO messages (queue, correlation, payload, state, available_at, trid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		queueName, correlation, payload, StateAvailable, farFuture().Format(time.RFC3339Nano), trid, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "queue: enqueue into %s", queueName)
	}
	return res.LastInsertId()
}

// farFuture is the sentinel available_at used for not-yet-committed
// enqueues, so they are never selected by Dequeue before Commit clears
// it.
func farFuture() time.Time {
	return time.Now().AddDate(100, 0, 0)
}

// Commit makes every message enqueued under trid immediately available,
// then wakes the oldest blocking-dequeue waiter on every queue touched,
// if a waiter
// registry is attached.
func (s *Store) Commit(trid string) error {
	var touched []string
	if s.waiters != nil {
		rows, err := s.db.Query(`SELECT DISTINCT queue FROM messages WHERE trid = ? AND state = ?`, trid, StateAvailable)
		if err != nil {
			return errors.Wrapf(err, "queue: find queues for %s", trid)
		}
		for rows.Next() {
			var q string
			if err := rows.Scan(&q); err != nil {
				rows.Close()
				return errors.Wrap(err, "queue: scan touched queue")
			}
			touched = append(touched, q)
		}
		rows.Close()
	}

	_, err := s.db.Exec(
		`UPDATE messages SET available_at = ? WHERE trid = ? AND state = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), trid, StateAvailable,
	)
	if err != nil {
		return errors.Wrapf(err, "queue: commit %s", trid)
	}

	for _, q := range touched {
		s.waiters.WakeOldest(q)
	}
	return nil
}

// Rollback discards every not-yet-visible enqueue under trid, and for
// any message that trid had dequeued (locked), releases it back to
// available with an incremented redelivery_count and a pushed-out
// available_at per policy.
func (s *Store) Rollback(trid string, policy RetryPolicy) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE trid = ? AND state = ? AND available_at > ?`,
		trid, StateAvailable, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrapf(err, "queue: rollback discard enqueues for %s", trid)
	}

	rows, err := s.db.Query(`SELECT id, redelivery_count FROM messages WHERE trid = ? AND state = ?`, trid, StateLocked)
	if err != nil {
		return errors.Wrapf(err, "queue: rollback find locked for %s", trid)
	}
	type locked struct {
		id    int64
		count int
	}
	var toRelease []locked
	for rows.Next() {
		var l locked
		if err := rows.Scan(&l.id, &l.count); err != nil {
			rows.Close()
			return errors.Wrap(err, "queue: scan locked message")
		}
		toRelease = append(toRelease, l)
	}
	rows.Close()

	for _, l := range toRelease {
		newCount := l.count + 1
		availableAt := time.Now().Add(policy.Delay).UTC()
		if policy.MaxRedeliveries > 0 && newCount > policy.MaxRedeliveries {
			if _, err := s.db.Exec(`UPDATE messages SET state = 'dead', trid = NULL WHERE id = ?`, l.id); err != nil {
				return errors.Wrapf(err, "queue: dead-letter message %d", l.id)
			}
			continue
		}
		if _, err := s.db.Exec(
			`UPDATE messages SET state = ?, available_at = ?, redelivery_count = ?, trid = NULL WHERE id = ?`,
			StateAvailable, availableAt.Format(time.RFC3339Nano), newCount, l.id,
		); err != nil {
			return errors.Wrapf(err, "queue: release message %d", l.id)
		}
	}
	return nil
}

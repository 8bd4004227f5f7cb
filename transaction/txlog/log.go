// Package txlog is the Transaction Manager's persistent log: one row per
// transaction plus its involved-resource set, backed by SQLite. It
// generalizes a plain application-database connection/migration shape
// into a write-ahead transaction ledger, with one added discipline an
// ordinary application store doesn't need: the transition into
// `prepared` is fsync'd before the caller is told `ok`, while every
// other transition may be batched.
package txlog

import (
	"database/sql"
	"embed"
	"time"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// State is a transaction's position in the 2PC state machine.
type State string

const (
	StateActive       State = "active"
	StatePreparing    State = "preparing"
	StatePrepared     State = "prepared"
	StateCommitting   State = "committing"
	StateCommitted    State = "committed"
	StateRollingBack  State = "rolling_back"
	StateRolledBack   State = "rolled_back"
	StateHeuristic    State = "heuristic"
)

// Record is one transaction's durable row.
type Record struct {
	TRID      string
	State     State
	BegunAt   time.Time
	Deadline  time.Time
	UpdatedAt time.Time
	Resources []ResourceOutcome
}

// ResourceOutcome is one XA resource manager's recorded involvement and,
// once prepare/commit/rollback has been driven, its last XA return code.
type ResourceOutcome struct {
	Resource string
	XACode   string
}

// Log is the open transaction log.
type Log struct {
	db *sql.DB
}

// Open opens (and migrates) the transaction log at path. Exactly one
// process may hold it open at a time; the domain's singleton discipline
// enforces this.
func Open(path string) (*Log, error) {
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db, migrations, "migrations"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "txlog: migrate")
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Begin inserts a new active transaction row. This write, like all
// non-prepared transitions, is not required to be durable before
// replying to the caller.
func (l *Log) Begin(trid string, deadline time.Time) error {
	now := time.Now().UTC()
	_, err := l.db.Exec(
		`INSERT INTO transactions (trid, state, begun_at, deadline, updated_at) VALUES (?, ?, ?, ?, ?)`,
		trid, StateActive, now.Format(time.RFC3339Nano), deadline.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrapf(err, "txlog: begin %s", trid)
	}
	return nil
}

// TransitionBatched records a state change without forcing an fsync;
// SQLite's WAL checkpointing batches it at its own discretion. Used for
// every transition except the one into prepared.
func (l *Log) TransitionBatched(trid string, state State) error {
	_, err := l.db.Exec(
		`UPDATE transactions SET state = ?, updated_at = ? WHERE trid = ?`,
		state, time.Now().UTC().Format(time.RFC3339Nano), trid,
	)
	if err != nil {
		return errors.Wrapf(err, "txlog: transition %s to %s", trid, state)
	}
	return nil
}

// TransitionPreparedDurable records the transition into prepared and
// forces it to stable storage with PRAGMA wal_checkpoint(FULL) before
// returning, so a crash immediately after replying `ok` to a commit_req
// can never lose the fact that this resource already voted to commit.
func (l *Log) TransitionPreparedDurable(trid string) error {
	if err := l.TransitionBatched(trid, StatePrepared); err != nil {
		return err
	}
	if _, err := l.db.Exec(`PRAGMA wal_checkpoint(FULL)`); err != nil {
		return errors.Wrapf(err, "txlog: fsync prepared %s", trid)
	}
	return nil
}

// RecordHeuristic marks a transaction heuristic and preserves the
// resource's evidence for operator intervention.
func (l *Log) RecordHeuristic(trid, evidence string) error {
	_, err := l.db.Exec(
		`UPDATE transactions SET state = ?, heuristic_evidence = ?, updated_at = ? WHERE trid = ?`,
		StateHeuristic, evidence, time.Now().UTC().Format(time.RFC3339Nano), trid,
	)
	if err != nil {
		return errors.Wrapf(err, "txlog: record heuristic %s", trid)
	}
	return nil
}

// InvolveResource records that resource has joined trid.
func (l *Log) InvolveResource(trid, resource string) error {
	_, err := l.db.Exec(
		`INSERT OR IGNORE INTO transaction_resources (trid, resource) VALUES (?, ?)`,
		trid, resource,
	)
	if err != nil {
		return errors.Wrapf(err, "txlog: involve %s in %s", resource, trid)
	}
	return nil
}

// RecordXACode stores a resource's returned XA code once prepare/commit/
// rollback has been driven against it.
func (l *Log) RecordXACode(trid, resource, code string) error {
	_, err := l.db.Exec(
		`UPDATE transaction_resources SET xa_code = ? WHERE trid = ? AND resource = ?`,
		code, trid, resource,
	)
	if err != nil {
		return errors.Wrapf(err, "txlog: record xa code for %s/%s", trid, resource)
	}
	return nil
}

// Get loads one transaction's record, including its involved resources.
func (l *Log) Get(trid string) (*Record, error) {
	row := l.db.QueryRow(`SELECT trid, state, begun_at, deadline, updated_at FROM transactions WHERE trid = ?`, trid)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, errors.Wrapf(err, "txlog: get %s", trid)
	}

	rows, err := l.db.Query(`SELECT resource, COALESCE(xa_code, '') FROM transaction_resources WHERE trid = ?`, trid)
	if err != nil {
		return nil, errors.Wrapf(err, "txlog: get resources for %s", trid)
	}
	defer rows.Close()
	for rows.Next() {
		var ro ResourceOutcome
		if err := rows.Scan(&ro.Resource, &ro.XACode); err != nil {
			return nil, errors.Wrap(err, "txlog: scan resource")
		}
		rec.Resources = append(rec.Resources, ro)
	}
	return rec, nil
}

// Prepared returns every transaction currently in the prepared state, for
// replay-on-restart recovery.
func (l *Log) Prepared() ([]*Record, error) {
	return l.inState(StatePrepared)
}

// Committing returns every transaction mid-commit at crash time, the
// other half of replay-on-restart recovery.
func (l *Log) Committing() ([]*Record, error) {
	return l.inState(StateCommitting)
}

func (l *Log) inState(state State) ([]*Record, error) {
	rows, err := l.db.Query(`SELECT trid, state, begun_at, deadline, updated_at FROM transactions WHERE state = ?`, state)
	if err != nil {
		return nil, errors.Wrapf(err, "txlog: query state %s", state)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var begun, deadline, updated string
	if err := s.Scan(&rec.TRID, &rec.State, &begun, &deadline, &updated); err != nil {
		return nil, err
	}
	rec.BegunAt, _ = time.Parse(time.RFC3339Nano, begun)
	rec.Deadline, _ = time.Parse(time.RFC3339Nano, deadline)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &rec, nil
}

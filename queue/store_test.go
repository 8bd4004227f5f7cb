package queue

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnqueueNotVisibleUntilCommit(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("payload"), "tx-1")
	require.NoError(t, err)

	_, err = s.Dequeue("orders", "tx-2")
	require.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, s.Commit("tx-1"))

	m, err := s.Dequeue("orders", "tx-2")
	require.NoError(t, err)
	require.Equal(t, "corr-1", m.Correlation)
	require.Equal(t, []byte("payload"), m.Payload)
}

func TestCommitOnlyAffectsOwnTransaction(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	_, err = s.Enqueue("orders", "corr-2", []byte("b"), "tx-2")
	require.NoError(t, err)

	require.NoError(t, s.Commit("tx-1"))

	m, err := s.Dequeue("orders", "tx-3")
	require.NoError(t, err)
	require.Equal(t, "corr-1", m.Correlation)

	_, err = s.Dequeue("orders", "tx-4")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestRollbackDiscardsUncommittedEnqueue(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Rollback("tx-1", RetryPolicy{}))
	require.NoError(t, s.Commit("tx-1"))

	_, err = s.Dequeue("orders", "tx-2")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestRollbackReleasesLockedMessageWithIncrementedRedelivery(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-1"))

	m, err := s.Dequeue("orders", "tx-2")
	require.NoError(t, err)
	require.Equal(t, 0, m.RedeliveryCount)

	require.NoError(t, s.Rollback("tx-2", RetryPolicy{MaxRedeliveries: 3, Delay: time.Hour}))

	_, err = s.Dequeue("orders", "tx-3")
	require.ErrorIs(t, err, ErrEmpty, "retry delay should defer availability")
}

func TestRollbackDeadLettersAfterMaxRedeliveries(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-1"))

	policy := RetryPolicy{MaxRedeliveries: 1}
	for i := 0; i < 2; i++ {
		m, err := s.Dequeue("orders", "tx-retry")
		require.NoError(t, err)
		require.NoError(t, s.Rollback("tx-retry", policy))
		_ = m
	}

	var state string
	row := s.db.QueryRow(`SELECT state FROM messages WHERE correlation = ?`, "corr-1")
	require.NoError(t, row.Scan(&state))
	require.Equal(t, "dead", state)
}

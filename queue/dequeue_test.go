package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDequeueReturnsOldestFirst(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "first", []byte("1"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-1"))

	_, err = s.Enqueue("orders", "second", []byte("2"), "tx-2")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-2"))

	m, err := s.Dequeue("orders", "tx-reader")
	require.NoError(t, err)
	require.Equal(t, "first", m.Correlation)
}

func TestDequeueOnEmptyQueueReturnsErrEmpty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Dequeue("orders", "tx-reader")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestConsumeRemovesMessagePermanently(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-1"))

	m, err := s.Dequeue("orders", "tx-2")
	require.NoError(t, err)
	require.NoError(t, s.Consume(m.ID))

	var count int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE id = ?`, m.ID)
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 0, count)
}

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDequeueBlockingReturnsImmediatelyWhenAvailable(t *testing.T) {
	s := openTestStore(t)
	waiters := NewWaiters()

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-1")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	m, err := s.DequeueBlocking(ctx, waiters, "orders", "tx-2")
	require.NoError(t, err)
	require.Equal(t, "corr-1", m.Correlation)
}

func TestDequeueBlockingWakesOnSubsequentEnqueue(t *testing.T) {
	s := openTestStore(t)
	waiters := NewWaiters()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := make(chan *Message, 1)
	errs := make(chan error, 1)
	go func() {
		m, err := s.DequeueBlocking(ctx, waiters, "orders", "tx-reader")
		result <- m
		errs <- err
	}()

	// Give the blocking call a moment to register as a waiter before the
	// message becomes available.
	time.Sleep(50 * time.Millisecond)

	_, err := s.Enqueue("orders", "corr-1", []byte("a"), "tx-writer")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-writer"))
	waiters.WakeOldest("orders")

	require.NoError(t, <-errs)
	m := <-result
	require.Equal(t, "corr-1", m.Correlation)
}

func TestDequeueBlockingReturnsOnContextCancel(t *testing.T) {
	s := openTestStore(t)
	waiters := NewWaiters()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.DequeueBlocking(ctx, waiters, "orders", "tx-reader")
	require.Error(t, err)
}

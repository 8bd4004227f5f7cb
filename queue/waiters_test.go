package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWakeOldestWakesFIFO(t *testing.T) {
	w := NewWaiters()

	first := w.Register("orders")
	second := w.Register("orders")

	w.WakeOldest("orders")

	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("expected first waiter to be woken")
	}

	select {
	case <-second:
		t.Fatal("second waiter should not have been woken yet")
	default:
	}

	w.WakeOldest("orders")
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("expected second waiter to be woken")
	}
}

func TestWakeOldestOnEmptyQueueIsNoOp(t *testing.T) {
	w := NewWaiters()
	require.NotPanics(t, func() { w.WakeOldest("orders") })
}

func TestCancelRemovesWaiterWithoutWaking(t *testing.T) {
	w := NewWaiters()

	ch := w.Register("orders")
	w.Cancel("orders", ch)

	// A subsequent wake must not touch a canceled waiter; registering a
	// fresh one and waking confirms the list no longer holds the first.
	fresh := w.Register("orders")
	w.WakeOldest("orders")

	select {
	case <-fresh:
	case <-time.After(time.Second):
		t.Fatal("expected freshly registered waiter to be woken")
	}
}

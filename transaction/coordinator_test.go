package transaction

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/transaction/txlog"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tx.db")
	l, err := txlog.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return NewCoordinator(l, time.Minute)
}

func TestPrepareAllOKTransitionsToPrepared(t *testing.T) {
	c := newTestCoordinator(t)
	pool := NewProxyPool("orders-db", []uuid.UUID{uuid.New()})
	c.RegisterResource("orders-db", pool)

	require.NoError(t, c.Begin("tx-1"))
	require.NoError(t, c.InvolveResource("tx-1", "orders-db"))

	parked, err := c.Prepare("tx-1")
	require.NoError(t, err)
	require.Empty(t, parked)

	ready, rollback, err := c.HandlePrepareReply(ProxyReply{TRID: "tx-1", Resource: "orders-db", Code: XAOK})
	require.NoError(t, err)
	require.True(t, ready)
	require.False(t, rollback)

	state, ok := c.State("tx-1")
	require.True(t, ok)
	require.Equal(t, StatePrepared, state)
}

func TestPrepareFailureTransitionsToRollingBack(t *testing.T) {
	c := newTestCoordinator(t)
	pool := NewProxyPool("orders-db", []uuid.UUID{uuid.New()})
	c.RegisterResource("orders-db", pool)

	require.NoError(t, c.Begin("tx-2"))
	require.NoError(t, c.InvolveResource("tx-2", "orders-db"))
	_, err := c.Prepare("tx-2")
	require.NoError(t, err)

	ready, rollback, err := c.HandlePrepareReply(ProxyReply{TRID: "tx-2", Resource: "orders-db", Code: XARBROLLBACK})
	require.NoError(t, err)
	require.False(t, ready)
	require.True(t, rollback)

	state, _ := c.State("tx-2")
	require.Equal(t, StateRollingBack, state)
}

func TestCommitAfterPrepareCompletesOnAllOK(t *testing.T) {
	c := newTestCoordinator(t)
	pool := NewProxyPool("orders-db", []uuid.UUID{uuid.New()})
	c.RegisterResource("orders-db", pool)

	require.NoError(t, c.Begin("tx-3"))
	require.NoError(t, c.InvolveResource("tx-3", "orders-db"))
	c.Prepare("tx-3")
	c.HandlePrepareReply(ProxyReply{TRID: "tx-3", Resource: "orders-db", Code: XAOK})

	require.NoError(t, c.Commit("tx-3"))
	done, err := c.HandleSecondPhaseReply(ProxyReply{TRID: "tx-3", Resource: "orders-db", Code: XAOK}, true)
	require.NoError(t, err)
	require.True(t, done)

	state, _ := c.State("tx-3")
	require.Equal(t, StateCommitted, state)
}

func TestHeuristicReplyIsTerminal(t *testing.T) {
	c := newTestCoordinator(t)
	pool := NewProxyPool("orders-db", []uuid.UUID{uuid.New()})
	c.RegisterResource("orders-db", pool)

	require.NoError(t, c.Begin("tx-4"))
	require.NoError(t, c.InvolveResource("tx-4", "orders-db"))
	c.Prepare("tx-4")
	c.HandlePrepareReply(ProxyReply{TRID: "tx-4", Resource: "orders-db", Code: XAOK})
	c.Commit("tx-4")

	done, err := c.HandleSecondPhaseReply(ProxyReply{TRID: "tx-4", Resource: "orders-db", Code: XAHeuristic}, true)
	require.NoError(t, err)
	require.True(t, done)

	state, _ := c.State("tx-4")
	require.Equal(t, StateHeuristic, state)
}

func TestCheckDeadlinesReturnsExpiredActiveTransactions(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, c.Begin("tx-5"))

	expired := c.CheckDeadlines(time.Now().Add(2 * time.Minute))
	require.Contains(t, expired, "tx-5")

	notYet := c.CheckDeadlines(time.Now())
	require.NotContains(t, notYet, "tx-5")
}

func TestProxyPoolParksWhenAllBusy(t *testing.T) {
	pid := uuid.New()
	pool := NewProxyPool("res", []uuid.UUID{pid})

	got, ok := pool.Dispatch(ProxyRequest{TRID: "t1", Resource: "res"})
	require.True(t, ok)
	require.Equal(t, pid, got)

	_, ok = pool.Dispatch(ProxyRequest{TRID: "t2", Resource: "res"})
	require.False(t, ok)
	require.Equal(t, 1, pool.PendingCount())

	next, nextPID := pool.Release(pid)
	require.NotNil(t, next)
	require.Equal(t, "t2", next.TRID)
	require.Equal(t, pid, nextPID)
}

package transaction

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/transaction/rpc"
)

func TestAdminServerGetStateReportsActiveTransaction(t *testing.T) {
	c := newTestCoordinator(t)
	pool := NewProxyPool("orders-db", []uuid.UUID{uuid.New()})
	c.RegisterResource("orders-db", pool)

	require.NoError(t, c.Begin("tx-admin"))
	require.NoError(t, c.InvolveResource("tx-admin", "orders-db"))

	admin := AdminServer{Coordinator: c}
	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Len(t, reply.Transactions, 1)
	require.Equal(t, "tx-admin", reply.Transactions[0].TRID)
	require.Contains(t, reply.Transactions[0].Resources, "orders-db")
}

func TestAdminServerGetStateEmptyWhenNoTransactions(t *testing.T) {
	c := newTestCoordinator(t)
	admin := AdminServer{Coordinator: c}

	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Empty(t, reply.Transactions)
}

package transaction

import (
	"context"
	"time"

	"github.com/casual-mw/casual/transaction/rpc"
)

// AdminServer adapts a Coordinator to the transaction/rpc.AdminServer
// interface so `casual transaction --state` can reach a running
// Transaction Manager over the admin control-plane.
type AdminServer struct {
	Coordinator *Coordinator
}

func (s AdminServer) GetState(ctx context.Context, req *rpc.StateRequest) (*rpc.StateReply, error) {
	reply := &rpc.StateReply{}
	for _, snap := range s.Coordinator.Snapshot() {
		resources := make(map[string]string, len(snap.Resources))
		for k, v := range snap.Resources {
			resources[k] = string(v)
		}
		reply.Transactions = append(reply.Transactions, rpc.TransactionSnapshot{
			TRID:      snap.TRID,
			State:     string(snap.State),
			Deadline:  snap.Deadline.Format(time.RFC3339),
			Resources: resources,
		})
	}
	return reply, nil
}

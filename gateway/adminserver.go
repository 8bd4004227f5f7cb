package gateway

import (
	"context"

	"github.com/casual-mw/casual/gateway/rpc"
)

// AdminServer adapts a Registry to the gateway/rpc.AdminServer
// interface so `casual gateway --state` can reach a running Gateway
// over the admin control-plane.
type AdminServer struct {
	DomainID string
	Registry *Registry
}

func (s AdminServer) GetState(ctx context.Context, req *rpc.StateRequest) (*rpc.StateReply, error) {
	reply := &rpc.StateReply{DomainID: s.DomainID}
	for _, c := range s.Registry.AllConnections() {
		reply.Connections = append(reply.Connections, rpc.ConnectionSnapshot{
			RemoteID: c.RemoteID(),
			Role:     c.Role().String(),
			Version:  c.Version(),
			Closed:   c.Closed(),
		})
	}
	return reply, nil
}

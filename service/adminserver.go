package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/service/rpc"
)

// AdminServer adapts a Manager to the service/rpc.AdminServer interface
// so `casual service --state` can reach a running Service Manager over
// the admin control-plane.
type AdminServer struct {
	Manager *Manager
}

func (s AdminServer) GetState(ctx context.Context, req *rpc.StateRequest) (*rpc.StateReply, error) {
	reply := &rpc.StateReply{}
	for _, snap := range s.Manager.Snapshot() {
		reply.Services = append(reply.Services, rpc.ServiceSnapshot{
			Name:       snap.Name,
			Sequential: snap.Sequential,
			Busy:       snap.Busy,
			Concurrent: snap.Concurrent,
			Count:      snap.Metric.Count,
			ErrorCount: snap.Metric.ErrorCount,
		})
	}
	return reply, nil
}

func (s AdminServer) Call(ctx context.Context, req *rpc.CallRequest) (*rpc.CallReply, error) {
	result := s.Manager.Lookup(LookupRequest{
		Requested:   req.Service,
		Caller:      uuid.New(),
		Correlation: uuid.New(),
		Context:     ContextRegular,
	})

	reply := &rpc.CallReply{}
	switch result.Status {
	case StatusAbsent:
		reply.Status = "absent"
	case StatusBusy:
		reply.Status = "busy"
	case StatusIdle:
		reply.Status = "idle"
		reply.Instance = result.Instance.String()
	}
	return reply, nil
}

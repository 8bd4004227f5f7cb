package domain

import (
	"context"

	"github.com/casual-mw/casual/domain/rpc"
)

// AdminServer adapts a Manager to the domain/rpc.AdminServer interface
// so `casual domain --scale-instances` / `--shutdown` / `--state` can
// reach a running domain over the admin control-plane.
type AdminServer struct {
	Manager *Manager
}

func (s AdminServer) Scale(ctx context.Context, req *rpc.ScaleRequest) (*rpc.ScaleReply, error) {
	delta, err := s.Manager.Scale(req.Alias, req.Target)
	if err != nil {
		return nil, err
	}
	return &rpc.ScaleReply{Delta: delta}, nil
}

func (s AdminServer) Shutdown(ctx context.Context, req *rpc.ShutdownRequest) (*rpc.ShutdownReply, error) {
	s.Manager.Shutdown()
	return &rpc.ShutdownReply{Initiated: true}, nil
}

func (s AdminServer) GetState(ctx context.Context, req *rpc.StateRequest) (*rpc.StateReply, error) {
	handles := s.Manager.Handles()
	samples := s.Manager.SampleHandles()
	reply := &rpc.StateReply{Runlevel: s.Manager.Runlevel().String()}
	for _, h := range handles {
		snap := rpc.HandleSnapshot{
			PID:      h.PID,
			Identity: h.Identity.String(),
			Alias:    h.Alias,
			IPC:      h.IPC,
		}
		if sample, ok := samples[h.PID]; ok {
			snap.CPUPercent = sample.CPUPercent
			snap.MemoryRSSBytes = sample.MemoryRSSBytes
		}
		reply.Handles = append(reply.Handles, snap)
	}
	return reply, nil
}

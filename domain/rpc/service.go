// Package rpc exposes the Domain Manager's admin control-plane —
// instance scaling and graceful shutdown — for `casual domain
// --scale-instances` / `casual domain --shutdown`, sharing its JSON wire
// codec with every other manager's admin surface via internal/rpcutil
// (see gateway/rpc's package doc for why there is no protoc-generated
// stub here).
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/casual-mw/casual/internal/rpcutil"
)

// ScaleRequest changes target_instances for alias.
type ScaleRequest struct {
	Alias  string `json:"alias"`
	Target int    `json:"target"`
}

// ScaleReply reports the change applied.
type ScaleReply struct {
	Delta int `json:"delta"`
}

// ShutdownRequest initiates graceful domain shutdown.
type ShutdownRequest struct{}

// ShutdownReply acknowledges shutdown was initiated.
type ShutdownReply struct {
	Initiated bool `json:"initiated"`
}

// HandleSnapshot is one live process's admin-visible state. CPUPercent
// and MemoryRSSBytes are best-effort: they are omitted (left zero) when
// the process could not be sampled, e.g. it exited between Handles()
// and the sampling pass.
type HandleSnapshot struct {
	PID            int     `json:"pid"`
	Identity       string  `json:"identity"`
	Alias          string  `json:"alias"`
	IPC            string  `json:"ipc"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryRSSBytes uint64  `json:"memory_rss_bytes"`
}

// StateRequest is the (empty) request for GetState.
type StateRequest struct{}

// StateReply is the domain's live process snapshot.
type StateReply struct {
	Runlevel string           `json:"runlevel"`
	Handles  []HandleSnapshot `json:"handles"`
}

// AdminServer is implemented by the Domain Manager to answer admin RPCs.
type AdminServer interface {
	Scale(ctx context.Context, req *ScaleRequest) (*ScaleReply, error)
	Shutdown(ctx context.Context, req *ShutdownRequest) (*ShutdownReply, error)
	GetState(ctx context.Context, req *StateRequest) (*StateReply, error)
}

func scaleHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScaleRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Scale(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.domain.Admin/Scale"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).Scale(ctx, req.(*ScaleRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func shutdownHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(ShutdownRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Shutdown(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.domain.Admin/Shutdown"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).Shutdown(ctx, req.(*ShutdownRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func getStateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(StateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).GetState(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.domain.Admin/GetState"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).GetState(ctx, req.(*StateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the hand-written grpc.ServiceDesc for the domain admin
// control-plane.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "casual.domain.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Scale", Handler: scaleHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
		{MethodName: "GetState", Handler: getStateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "domain/rpc/service.go",
}

// RegisterAdminServer registers srv on s using ServiceDesc.
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AdminClient calls the domain admin control-plane over an established
// connection.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

// NewAdminClient wraps cc for admin calls.
func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) Scale(ctx context.Context, req *ScaleRequest, opts ...grpc.CallOption) (*ScaleReply, error) {
	reply := new(ScaleReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.domain.Admin/Scale", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *AdminClient) Shutdown(ctx context.Context, req *ShutdownRequest, opts ...grpc.CallOption) (*ShutdownReply, error) {
	reply := new(ShutdownReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.domain.Admin/Shutdown", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *AdminClient) GetState(ctx context.Context, req *StateRequest, opts ...grpc.CallOption) (*StateReply, error) {
	reply := new(StateReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.domain.Admin/GetState", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

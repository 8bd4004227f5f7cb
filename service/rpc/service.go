// Package rpc exposes the Service Manager's registry snapshot for
// `casual service --state`, sharing its JSON wire codec with every
// other manager's admin surface via internal/rpcutil (see gateway/rpc's
// package doc for why there is no protoc-generated stub here).
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/casual-mw/casual/internal/rpcutil"
)

// ServiceSnapshot is one advertised service's admin-visible state.
type ServiceSnapshot struct {
	Name       string `json:"name"`
	Sequential int    `json:"sequential"`
	Busy       int    `json:"busy"`
	Concurrent int    `json:"concurrent"`
	Count      uint64 `json:"count"`
	ErrorCount uint64 `json:"error_count"`
}

// StateRequest is the (empty) request for GetState.
type StateRequest struct{}

// StateReply is the service registry snapshot.
type StateReply struct {
	Services []ServiceSnapshot `json:"services"`
}

// CallRequest resolves an instance for a synchronous service call from
// the CLI. It performs the same
// resolution Lookup would for a regular in-process caller; actually
// delivering the request payload to the resolved instance's transport
// queue is the caller's responsibility, since the admin control-plane
// only has visibility into the registry, not the wire.
type CallRequest struct {
	Service string `json:"service"`
}

// CallReply reports what Lookup resolved.
type CallReply struct {
	Status   string `json:"status"` // "absent" | "idle" | "busy"
	Instance string `json:"instance,omitempty"`
}

// AdminServer is implemented by the Service Manager to answer admin
// RPCs.
type AdminServer interface {
	GetState(ctx context.Context, req *StateRequest) (*StateReply, error)
	Call(ctx context.Context, req *CallRequest) (*CallReply, error)
}

func getStateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(StateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).GetState(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.service.Admin/GetState"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).GetState(ctx, req.(*StateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func callHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(CallRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Call(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.service.Admin/Call"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).Call(ctx, req.(*CallRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the hand-written grpc.ServiceDesc for the service
// admin control-plane.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "casual.service.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: getStateHandler},
		{MethodName: "Call", Handler: callHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "service/rpc/service.go",
}

// RegisterAdminServer registers srv on s using ServiceDesc.
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AdminClient calls the service admin control-plane over an established
// connection.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

// NewAdminClient wraps cc for admin calls.
func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) GetState(ctx context.Context, req *StateRequest, opts ...grpc.CallOption) (*StateReply, error) {
	reply := new(StateReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.service.Admin/GetState", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *AdminClient) Call(ctx context.Context, req *CallRequest, opts ...grpc.CallOption) (*CallReply, error) {
	reply := new(CallReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.service.Admin/Call", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

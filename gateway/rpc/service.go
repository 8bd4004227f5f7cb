// Package rpc exposes the gateway's connection registry over gRPC for
// `casual gateway --state` and operator tooling, grounded in the
// teacher's plugin/grpc server (plugin/grpc/server.go) which also
// exposes an internal registry over a grpc.Server. It shares its JSON
// wire codec with every other manager's admin control-plane via
// internal/rpcutil rather than generating its own protobuf stubs.
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/casual-mw/casual/internal/rpcutil"
)

// ConnectionSnapshot is one connection's admin-visible state.
type ConnectionSnapshot struct {
	RemoteID string `json:"remote_id"`
	Role     string `json:"role"`
	Version  string `json:"version"`
	Closed   bool   `json:"closed"`
}

// StateRequest is the (empty) request for GetState.
type StateRequest struct{}

// StateReply is the gateway connection registry snapshot.
type StateReply struct {
	DomainID    string               `json:"domain_id"`
	Connections []ConnectionSnapshot `json:"connections"`
}

// AdminServer is implemented by the gateway to answer admin RPCs.
type AdminServer interface {
	GetState(ctx context.Context, req *StateRequest) (*StateReply, error)
}

func getStateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(StateRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).GetState(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.gateway.Admin/GetState"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).GetState(ctx, req.(*StateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the hand-written grpc.ServiceDesc for the admin
// control-plane (see package doc for why this isn't protoc-generated).
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "casual.gateway.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: getStateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gateway/rpc/service.go",
}

// RegisterAdminServer registers srv on s using ServiceDesc.
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AdminClient calls the admin control-plane over an established
// connection.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

// NewAdminClient wraps cc for admin calls.
func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

// GetState calls the gateway's GetState RPC.
func (c *AdminClient) GetState(ctx context.Context, req *StateRequest, opts ...grpc.CallOption) (*StateReply, error) {
	reply := new(StateReply)
	opts = append(opts, grpc.ForceCodec(rpcutil.JSONCodec{}))
	if err := c.cc.Invoke(ctx, "/casual.gateway.Admin/GetState", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

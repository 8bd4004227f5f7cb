// Package rpc exposes the Transaction Manager's in-flight transaction
// snapshot for `casual transaction --state`, sharing its JSON wire codec
// with every other manager's admin surface via internal/rpcutil (see
// gateway/rpc's package doc for why there is no protoc-generated stub
// here).
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/casual-mw/casual/internal/rpcutil"
)

// TransactionSnapshot is one transaction's admin-visible state.
type TransactionSnapshot struct {
	TRID      string            `json:"trid"`
	State     string            `json:"state"`
	Deadline  string            `json:"deadline"`
	Resources map[string]string `json:"resources"`
}

// StateRequest is the (empty) request for GetState.
type StateRequest struct{}

// StateReply is the transaction manager snapshot.
type StateReply struct {
	Transactions []TransactionSnapshot `json:"transactions"`
}

// AdminServer is implemented by the Transaction Manager to answer admin
// RPCs.
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
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/casual.transaction.Admin/GetState"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdminServer).GetState(ctx, req.(*StateRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the hand-written grpc.ServiceDesc for the transaction
// admin control-plane.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "casual.transaction.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetState", Handler: getStateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "transaction/rpc/service.go",
}

// RegisterAdminServer registers srv on s using ServiceDesc.
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AdminClient calls the transaction admin control-plane over an
// established connection.
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
	if err := c.cc.Invoke(ctx, "/casual.transaction.Admin/GetState", req, reply, opts...); err != nil {
		return nil, err
	}
	return reply, nil
}

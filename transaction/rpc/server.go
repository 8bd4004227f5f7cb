package rpc

import (
	"google.golang.org/grpc"

	"github.com/casual-mw/casual/internal/rpcutil"
)

// NewServer builds a grpc.Server forced onto the JSON codec and
// registers srv as the transaction admin control-plane.
func NewServer(srv AdminServer) *grpc.Server {
	s := grpc.NewServer(grpc.ForceServerCodec(rpcutil.JSONCodec{}))
	RegisterAdminServer(s, srv)
	return s
}

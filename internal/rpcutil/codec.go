// Package rpcutil holds the JSON wire codec shared by every manager's
// admin control-plane (domain/rpc, service/rpc, transaction/rpc,
// gateway/rpc). Since no protoc codegen pass ran as part of this build,
// each control-plane is registered with a hand-written grpc.ServiceDesc
// and this codec swapped in for the wire encoding — a supported, if less
// common, grpc-go extension point (encoding.Codec) rather than a
// hand-rolled transport. Factored out once so every manager's admin
// package registers the same codec name instead of each reimplementing
// it.
package rpcutil

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the name every admin ServiceDesc forces via
// grpc.ForceServerCodec/grpc.ForceCodec.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(JSONCodec{})
}

// JSONCodec implements google.golang.org/grpc/encoding.Codec using
// encoding/json instead of protobuf wire format.
type JSONCodec struct{}

func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Name() string {
	return CodecName
}

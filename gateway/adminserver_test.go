package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/gateway/rpc"
)

func TestAdminServerGetStateListsOutboundThenInbound(t *testing.T) {
	r := NewRegistry()
	out := &Connection{role: RoleOutboundRegular, remoteID: "dom-b", version: "1.2.0"}
	in := &Connection{role: RoleInboundRegular, remoteID: "dom-c", version: "1.1.0", closed: true}
	r.AddGroup(&Group{Name: "primary", Connections: []*Connection{out}})
	r.AddInbound(in)

	admin := AdminServer{DomainID: "dom-a", Registry: r}
	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Equal(t, "dom-a", reply.DomainID)
	require.Len(t, reply.Connections, 2)
	require.Equal(t, "dom-b", reply.Connections[0].RemoteID)
	require.False(t, reply.Connections[0].Closed)
	require.Equal(t, "dom-c", reply.Connections[1].RemoteID)
	require.True(t, reply.Connections[1].Closed)
}

func TestAdminServerGetStateEmptyRegistry(t *testing.T) {
	admin := AdminServer{DomainID: "dom-a", Registry: NewRegistry()}
	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Empty(t, reply.Connections)
}

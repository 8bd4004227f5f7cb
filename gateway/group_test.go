package gateway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionsServingRespectsGroupPriority(t *testing.T) {
	r := NewRegistry()
	primary := &Connection{}
	secondary := &Connection{}

	r.AddGroup(&Group{Name: "secondary", Order: 10, Connections: []*Connection{secondary}})
	r.AddGroup(&Group{Name: "primary", Order: 0, Connections: []*Connection{primary}})

	conns := r.ConnectionsServing("service", "orders.create")
	require.Len(t, conns, 2)
	require.Same(t, primary, conns[0])
	require.Same(t, secondary, conns[1])
}

func TestConnectionsServingSkipsClosed(t *testing.T) {
	r := NewRegistry()
	c := &Connection{closed: true}
	r.AddGroup(&Group{Name: "g", Connections: []*Connection{c}})

	conns := r.ConnectionsServing("service", "anything")
	require.Empty(t, conns)
}

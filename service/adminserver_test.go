package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/service/rpc"
)

func TestAdminServerGetStateReportsAdvertisedService(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	admin := AdminServer{Manager: m}
	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Len(t, reply.Services, 1)
	require.Equal(t, "orders.create", reply.Services[0].Name)
	require.Equal(t, 1, reply.Services[0].Sequential)
}

func TestAdminServerCallResolvesIdleInstance(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	admin := AdminServer{Manager: m}
	reply, err := admin.Call(context.Background(), &rpc.CallRequest{Service: "orders.create"})
	require.NoError(t, err)
	require.Equal(t, "idle", reply.Status)
	require.Equal(t, proc.PID.String(), reply.Instance)
}

func TestAdminServerCallReportsAbsentService(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	admin := AdminServer{Manager: m}

	reply, err := admin.Call(context.Background(), &rpc.CallRequest{Service: "nothing.here"})
	require.NoError(t, err)
	require.Equal(t, "absent", reply.Status)
}

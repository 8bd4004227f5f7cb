package domain

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/domain/rpc"
)

func TestAdminServerGetStateReportsConnectedHandle(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())
	_, err := m.HandleConnect(ConnectRequest{Identity: IdentityServiceManager, PID: os.Getpid(), IPC: "ipc1"})
	require.NoError(t, err)

	admin := AdminServer{Manager: m}
	reply, err := admin.GetState(context.Background(), &rpc.StateRequest{})
	require.NoError(t, err)
	require.Len(t, reply.Handles, 1)
	require.Equal(t, os.Getpid(), reply.Handles[0].PID)
	require.Greater(t, reply.Handles[0].MemoryRSSBytes, uint64(0))
}

func TestAdminServerScaleDelegatesToManager(t *testing.T) {
	m := New(config.DomainConfig{
		Groups: []config.GroupConfig{{
			Name:        "workers",
			Executables: []config.ExecConfig{{Alias: "worker", Path: "/bin/worker", TargetInstances: 1}},
		}},
	}, newFakeSpawner())

	admin := AdminServer{Manager: m}
	reply, err := admin.Scale(context.Background(), &rpc.ScaleRequest{Alias: "worker", Target: 3})
	require.NoError(t, err)
	require.Equal(t, 3, reply.Delta)
}

func TestAdminServerShutdownAcknowledges(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())
	admin := AdminServer{Manager: m}

	reply, err := admin.Shutdown(context.Background(), &rpc.ShutdownRequest{})
	require.NoError(t, err)
	require.True(t, reply.Initiated)
}

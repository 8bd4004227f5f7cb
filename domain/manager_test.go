package domain

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/config"
)

type fakeSpawner struct {
	mu      sync.Mutex
	nextPID int
	spawned []config.ExecConfig
	signals map[int][]os.Signal
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{nextPID: 100, signals: make(map[int][]os.Signal)}
}

func (f *fakeSpawner) Spawn(ec config.ExecConfig, env []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextPID++
	f.spawned = append(f.spawned, ec)
	return f.nextPID, nil
}

func (f *fakeSpawner) Signal(pid int, sig os.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals[pid] = append(f.signals[pid], sig)
	return nil
}

func (f *fakeSpawner) Wait(pid int) (int, ExitReason, error) {
	return 0, ExitReasonExited, nil
}

func TestBootOrderRespectsDependencies(t *testing.T) {
	groups := []config.GroupConfig{
		{Name: "c", DependsOn: []string{"b"}},
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}},
	}
	order, err := bootOrder(groups)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, names(order))
}

func TestBootOrderDetectsCycle(t *testing.T) {
	groups := []config.GroupConfig{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	}
	_, err := bootOrder(groups)
	require.Error(t, err)
}

func names(groups []config.GroupConfig) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}

func TestHandleConnectAssignsStartThenSingletonOnDuplicate(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())

	reply1, err := m.HandleConnect(ConnectRequest{Identity: IdentityServiceManager, PID: 1, IPC: "ipc1"})
	require.NoError(t, err)
	require.Equal(t, DirectiveStart, reply1.Directive)

	reply2, err := m.HandleConnect(ConnectRequest{Identity: IdentityServiceManager, PID: 2, IPC: "ipc2"})
	require.NoError(t, err)
	require.Equal(t, DirectiveSingleton, reply2.Directive)
}

func TestHandleConnectRejectsDuringShutdown(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())
	m.transitionShutdown()

	reply, err := m.HandleConnect(ConnectRequest{PID: 1})
	require.NoError(t, err)
	require.Equal(t, DirectiveShutdown, reply.Directive)
}

func TestHandleLookupDirectReturnsNilWhenAbsent(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())
	h := m.HandleLookup(LookupRequest{Identity: IdentityGatewayManager, Directive: LookupDirect})
	require.Nil(t, h)
}

func TestHandleLookupWaitParksUntilConnect(t *testing.T) {
	m := New(config.DomainConfig{}, newFakeSpawner())

	var got *Handle
	done := make(chan struct{})
	go func() {
		got = m.HandleLookup(LookupRequest{Identity: IdentityQueueManager, Directive: LookupWait})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond) // let the lookup park
	_, err := m.HandleConnect(ConnectRequest{Identity: IdentityQueueManager, PID: 7, IPC: "ipc7"})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lookup did not resolve after matching connect")
	}
	require.NotNil(t, got)
	require.Equal(t, 7, got.PID)
}

func TestHandleExitFansOutAndRestarts(t *testing.T) {
	spawner := newFakeSpawner()
	cfg := config.DomainConfig{
		Groups: []config.GroupConfig{
			{Name: "g1", Executables: []config.ExecConfig{{Alias: "svc", Path: "/bin/svc", Restart: true}}},
		},
	}
	m := New(cfg, spawner)
	m.mu.Lock()
	m.runlevel = RunlevelRunning
	m.mu.Unlock()

	_, err := m.HandleConnect(ConnectRequest{PID: 42, Alias: "svc"})
	require.NoError(t, err)

	events := m.Subscribe()
	m.HandleExit(42, 1, ExitReasonExited)

	select {
	case ev := <-events:
		require.Equal(t, 42, ev.PID)
		require.Equal(t, ExitReasonExited, ev.Reason)
	case <-time.After(time.Second):
		t.Fatal("no exit event delivered")
	}

	require.Len(t, spawner.spawned, 1)
	require.Equal(t, "svc", spawner.spawned[0].Alias)
}

func TestHandleExitSuppressesRestartsPastBurst(t *testing.T) {
	spawner := newFakeSpawner()
	cfg := config.DomainConfig{
		Groups: []config.GroupConfig{
			{Name: "g1", Executables: []config.ExecConfig{{Alias: "svc", Path: "/bin/svc", Restart: true}}},
		},
	}
	m := New(cfg, spawner)
	m.mu.Lock()
	m.runlevel = RunlevelRunning
	m.mu.Unlock()

	for i := 0; i < 5; i++ {
		pid := 100 + i
		_, err := m.HandleConnect(ConnectRequest{PID: pid, Alias: "svc"})
		require.NoError(t, err)
		m.HandleExit(pid, 1, ExitReasonExited)
	}

	require.Len(t, spawner.spawned, restartRateBurst)
}

func TestScaleReportsDelta(t *testing.T) {
	cfg := config.DomainConfig{
		Groups: []config.GroupConfig{
			{Name: "g1", Executables: []config.ExecConfig{{Alias: "svc", TargetInstances: 2}}},
		},
	}
	m := New(cfg, newFakeSpawner())

	delta, err := m.Scale("svc", 5)
	require.NoError(t, err)
	require.Equal(t, 5, delta)

	_, err = m.Scale("missing", 1)
	require.Error(t, err)
}

func TestIdentityEnvVarExport(t *testing.T) {
	name, ok := EnvVarForIdentity(IdentityServiceManager)
	require.True(t, ok)
	require.Equal(t, "CASUAL_SERVICE_MANAGER_IPC", name)

	_, ok = EnvVarForIdentity(uuid.New())
	require.False(t, ok)
}

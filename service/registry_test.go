package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAdvertiseThenLookupReservesIdleInstance(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	res := m.Lookup(LookupRequest{Requested: "orders.create", Caller: uuid.New(), Correlation: uuid.New()})
	require.Equal(t, StatusIdle, res.Status)
	require.Equal(t, proc.PID, res.Instance)
}

func TestLookupAbsentForUnknownService(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	res := m.Lookup(LookupRequest{Requested: "nothing.here"})
	require.Equal(t, StatusAbsent, res.Status)
}

func TestLookupParksAsPendingWhenBusy(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	first := m.Lookup(LookupRequest{Requested: "orders.create", Caller: uuid.New(), Correlation: uuid.New()})
	require.Equal(t, StatusIdle, first.Status)

	second := m.Lookup(LookupRequest{Requested: "orders.create", Caller: uuid.New(), Correlation: uuid.New()})
	require.Equal(t, StatusBusy, second.Status)
}

func TestAckDrainsPendingFIFO(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	caller1, corr1 := uuid.New(), uuid.New()
	m.Lookup(LookupRequest{Requested: "orders.create", Caller: caller1, Correlation: corr1})

	caller2, corr2 := uuid.New(), uuid.New()
	busy := m.Lookup(LookupRequest{Requested: "orders.create", Caller: caller2, Correlation: corr2})
	require.Equal(t, StatusBusy, busy.Status)

	err := m.Ack(AckRequest{Process: proc, Service: "orders.create", Start: time.Now(), End: time.Now()})
	require.NoError(t, err)

	m.mu.Lock()
	dispatched := m.drainPendingLocked()
	m.mu.Unlock()
	_ = dispatched // drained already inside Ack; this call should find nothing left
}

func TestConcurrentAdvertiseSortsByHopsThenOrder(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	far := Process{PID: uuid.New()}
	near := Process{PID: uuid.New()}

	m.ConcurrentAdvertise(ConcurrentAdvertiseRequest{Process: far, Hops: 2, Order: 0, Add: []string{"remote.svc"}})
	m.ConcurrentAdvertise(ConcurrentAdvertiseRequest{Process: near, Hops: 1, Order: 0, Add: []string{"remote.svc"}})

	res := m.Lookup(LookupRequest{Requested: "remote.svc"})
	require.Equal(t, StatusIdle, res.Status)
	require.Equal(t, near.PID, res.Instance)
}

func TestHandleExitSynthesizesServiceErrorForBusyInstance(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})

	caller, corr := uuid.New(), uuid.New()
	m.Lookup(LookupRequest{Requested: "orders.create", Caller: caller, Correlation: corr})

	replies, _ := m.HandleExit(proc.PID)
	require.Len(t, replies, 1)
	require.Equal(t, caller, replies[0].Caller)
	require.Equal(t, corr, replies[0].Correlation)
}

func TestPrepareShutdownReportsInFlightAndBlocksFurtherLookups(t *testing.T) {
	m := New(time.Minute, ContractLinger)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"orders.create"}})
	m.Lookup(LookupRequest{Requested: "orders.create", Caller: uuid.New(), Correlation: uuid.New()})

	reply := m.PrepareShutdown(PrepareShutdownRequest{Processes: []uuid.UUID{proc.PID}})
	require.Contains(t, reply.StillInFlight, proc.PID)

	res := m.Lookup(LookupRequest{Requested: "orders.create"})
	require.Equal(t, StatusAbsent, res.Status)
}

func TestCheckTimeoutsFiresAssassinationPastDeadline(t *testing.T) {
	m := New(10*time.Millisecond, ContractKill)
	proc := Process{PID: uuid.New()}
	m.Advertise(AdvertiseRequest{Process: proc, Add: []string{"slow.svc"}})
	m.Lookup(LookupRequest{Requested: "slow.svc", Caller: uuid.New(), Correlation: uuid.New()})

	future := func() time.Time { return time.Now().Add(time.Second) }
	events := m.CheckTimeouts(future)
	require.Len(t, events, 1)
	require.Equal(t, proc.PID, events[0].TargetPID)
	require.Equal(t, ContractKill, events[0].Contract)
}

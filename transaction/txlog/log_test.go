package txlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tx.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestBeginAndGetRoundTrip(t *testing.T) {
	l := openTestLog(t)
	deadline := time.Now().Add(time.Minute)
	require.NoError(t, l.Begin("tx-1", deadline))

	rec, err := l.Get("tx-1")
	require.NoError(t, err)
	require.Equal(t, StateActive, rec.State)
	require.WithinDuration(t, deadline, rec.Deadline, time.Second)
}

func TestTransitionPreparedDurablePersistsState(t *testing.T) {
	l := openTestLog(t)
	require.NoError(t, l.Begin("tx-2", time.Now().Add(time.Minute)))
	require.NoError(t, l.TransitionPreparedDurable("tx-2"))

	rec, err := l.Get("tx-2")
	require.NoError(t, err)
	require.Equal(t, StatePrepared, rec.State)

	prepared, err := l.Prepared()
	require.NoError(t, err)
	require.Len(t, prepared, 1)
	require.Equal(t, "tx-2", prepared[0].TRID)
}

func TestInvolveResourceAndRecordXACode(t *testing.T) {
	l := openTestLog(t)
	require.NoError(t, l.Begin("tx-3", time.Now().Add(time.Minute)))
	require.NoError(t, l.InvolveResource("tx-3", "accounts-db"))
	require.NoError(t, l.RecordXACode("tx-3", "accounts-db", "XA_OK"))

	rec, err := l.Get("tx-3")
	require.NoError(t, err)
	require.Len(t, rec.Resources, 1)
	require.Equal(t, "accounts-db", rec.Resources[0].Resource)
	require.Equal(t, "XA_OK", rec.Resources[0].XACode)
}

func TestRecordHeuristicSetsTerminalState(t *testing.T) {
	l := openTestLog(t)
	require.NoError(t, l.Begin("tx-4", time.Now().Add(time.Minute)))
	require.NoError(t, l.RecordHeuristic("tx-4", "accounts-db=XA_HEURMIX"))

	rec, err := l.Get("tx-4")
	require.NoError(t, err)
	require.Equal(t, StateHeuristic, rec.State)
}

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubCaller struct {
	reply []byte
	err   error
}

func (c *stubCaller) Call(ctx context.Context, service string, payload []byte) ([]byte, error) {
	return c.reply, c.err
}

func sequentialTRIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestForwardWorkerDeliversReplyOnSuccess(t *testing.T) {
	s := openTestStore(t)
	waiters := NewWaiters()
	caller := &stubCaller{reply: []byte("ack")}

	_, err := s.Enqueue("requests", "corr-1", []byte("do-thing"), "tx-seed")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-seed"))

	w := NewForwardWorker(s, waiters, caller, ForwardWorkerConfig{
		SourceQueue: "requests",
		Service:     "do-thing-service",
		ReplyQueue:  "replies",
	}, sequentialTRIDs("tx-fwd-"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.runOnce(ctx))

	reply, err := s.Dequeue("replies", "tx-check")
	require.NoError(t, err)
	require.Equal(t, []byte("ack"), reply.Payload)
	require.Equal(t, "corr-1", reply.Correlation)

	_, err = s.Dequeue("requests", "tx-check-2")
	require.ErrorIs(t, err, ErrEmpty, "source message should have been consumed")
}

func TestForwardWorkerRollsBackOnCallFailure(t *testing.T) {
	s := openTestStore(t)
	waiters := NewWaiters()
	caller := &stubCaller{err: require.AnError}

	_, err := s.Enqueue("requests", "corr-1", []byte("do-thing"), "tx-seed")
	require.NoError(t, err)
	require.NoError(t, s.Commit("tx-seed"))

	w := NewForwardWorker(s, waiters, caller, ForwardWorkerConfig{
		SourceQueue: "requests",
		Service:     "do-thing-service",
		Retry:       RetryPolicy{MaxRedeliveries: 3, Delay: time.Hour},
	}, sequentialTRIDs("tx-fwd-"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.runOnce(ctx))

	_, err = s.Dequeue("requests", "tx-check")
	require.ErrorIs(t, err, ErrEmpty, "message should be held back by retry delay after rollback")
}

package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/logger"
)

// ServiceCaller invokes a service by name with a message payload,
// returning the reply payload. Implemented by whatever component the
// worker is wired against (typically a thin client of the Service
// Manager's lookup/call path).
type ServiceCaller interface {
	Call(ctx context.Context, service string, payload []byte) ([]byte, error)
}

// ForwardWorkerConfig configures one source-queue/service/reply-queue
// pipeline.
type ForwardWorkerConfig struct {
	SourceQueue string
	Service     string
	ReplyQueue  string // optional; empty means no reply is enqueued
	Retry       RetryPolicy
}

// ForwardWorker dequeues from a source queue, calls a configured
// service, and enqueues the reply into an optional reply queue, all
// under one transaction: on call failure the transaction rolls back,
// triggering retry-with-delay. It is
// grounded in pulse/async's WorkerPool loop (pulse/async/worker.go),
// generalized from "execute an IX job" to "forward one queued message
// through a service call".
type ForwardWorker struct {
	store    *Store
	waiters  *Waiters
	caller   ServiceCaller
	cfg      ForwardWorkerConfig
	nextTRID func() string
	log      *zap.SugaredLogger
}

// NewForwardWorker constructs a worker. nextTRID supplies a fresh
// transaction id per iteration (normally the Transaction Manager's
// Begin).
func NewForwardWorker(store *Store, waiters *Waiters, caller ServiceCaller, cfg ForwardWorkerConfig, nextTRID func() string) *ForwardWorker {
	store.SetWaiters(waiters)
	return &ForwardWorker{
		store:    store,
		waiters:  waiters,
		caller:   caller,
		cfg:      cfg,
		nextTRID: nextTRID,
		log:      logger.Named("queue.forward").With(logger.FieldQueue, cfg.SourceQueue),
	}
}

// Run processes one message per iteration until ctx is canceled.
func (w *ForwardWorker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := w.runOnce(ctx); err != nil && ctx.Err() == nil {
			w.log.Warnw("forward iteration failed", logger.FieldError, err)
		}
	}
}

func (w *ForwardWorker) runOnce(ctx context.Context) error {
	trid := w.nextTRID()

	msg, err := w.store.DequeueBlocking(ctx, w.waiters, w.cfg.SourceQueue, trid)
	if err != nil {
		return err
	}

	reply, callErr := w.caller.Call(ctx, w.cfg.Service, msg.Payload)
	if callErr != nil {
		return w.store.Rollback(trid, w.cfg.Retry)
	}

	if w.cfg.ReplyQueue != "" {
		if _, err := w.store.Enqueue(w.cfg.ReplyQueue, msg.Correlation, reply, trid); err != nil {
			return errors.Wrapf(err, "queue: enqueue reply into %s", w.cfg.ReplyQueue)
		}
	}

	if err := w.store.Commit(trid); err != nil {
		return err
	}
	return w.store.Consume(msg.ID)
}

package transaction

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/logger"
	"github.com/casual-mw/casual/transaction/txlog"
)

// Coordinator drives the 2PC state machine for every active transaction,
// routing prepare/commit/rollback through per-resource ProxyPools and
// External (gateway) resources, and persisting every transition through
// the durable log. It is single-threaded per the cooperative
// event-loop model; the mutex guards its in-memory index, not
// concurrent commit logic.
type Coordinator struct {
	mu sync.Mutex

	log   *txlog.Log
	pools map[string]*ProxyPool
	externals map[string]*externalResource

	txns map[string]*transactionState

	defaultTimeout time.Duration
	slog           *zap.SugaredLogger
}

// NewCoordinator constructs a Coordinator over an opened log.
func NewCoordinator(log *txlog.Log, defaultTimeout time.Duration) *Coordinator {
	return &Coordinator{
		log:            log,
		pools:          make(map[string]*ProxyPool),
		externals:      make(map[string]*externalResource),
		txns:           make(map[string]*transactionState),
		defaultTimeout: defaultTimeout,
		slog:           logger.Named("transaction"),
	}
}

// RegisterResource attaches a resource's proxy pool so InvolveResource
// and the prepare/commit/rollback fan-out can route to it.
func (c *Coordinator) RegisterResource(name string, pool *ProxyPool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[name] = pool
}

// RegisterExternal attaches a remote domain reached via Gateway as a
// resource.
func (c *Coordinator) RegisterExternal(name string, ext External) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.externals[name] = newExternalResource(ext)
}

// Begin starts a new transaction with a deadline derived from the
// default timeout, durably recording it in the log.
func (c *Coordinator) Begin(trid string) error {
	deadline := time.Now().Add(c.defaultTimeout)
	if err := c.log.Begin(trid, deadline); err != nil {
		return err
	}
	c.mu.Lock()
	c.txns[trid] = newTransactionState(trid, deadline)
	c.mu.Unlock()
	return nil
}

// InvolveResource records that resource has joined trid, both in memory
// and durably.
func (c *Coordinator) InvolveResource(trid, resource string) error {
	c.mu.Lock()
	t, ok := c.txns[trid]
	if ok {
		t.Resources[resource] = ""
	}
	c.mu.Unlock()
	if !ok {
		return errors.Newf("transaction: unknown trid %s", trid)
	}
	return c.log.InvolveResource(trid, resource)
}

// Prepare moves trid from active to preparing and issues prepare to
// every involved resource in parallel via non-blocking Dispatch calls
//. It returns the resource names that could not be
// dispatched immediately (all proxies busy) so the caller can expect a
// later ProxyReply-driven completion instead.
func (c *Coordinator) Prepare(trid string) (parked []string, err error) {
	c.mu.Lock()
	t, ok := c.txns[trid]
	if !ok {
		c.mu.Unlock()
		return nil, errors.Newf("transaction: unknown trid %s", trid)
	}
	t.State = StatePreparing
	resources := make([]string, 0, len(t.Resources))
	for r := range t.Resources {
		resources = append(resources, r)
	}
	c.mu.Unlock()

	if err := c.log.TransitionBatched(trid, txlog.StatePreparing); err != nil {
		return nil, err
	}

	for _, resource := range resources {
		if pool, ok := c.pools[resource]; ok {
			if _, dispatched := pool.Dispatch(ProxyRequest{TRID: trid, Op: ProxyOpPrepare, Resource: resource}); !dispatched {
				parked = append(parked, resource)
			}
			continue
		}
		if ext, ok := c.externals[resource]; ok {
			if err := ext.dispatch(ProxyRequest{TRID: trid, Op: ProxyOpPrepare, Resource: resource}); err != nil {
				c.slog.Warnw("prepare send to external failed", logger.FieldTRID, trid, logger.FieldResource, resource, logger.FieldError, err)
			}
			continue
		}
		c.slog.Warnw("prepare: resource has no registered pool", logger.FieldTRID, trid, logger.FieldResource, resource)
	}
	return parked, nil
}

// HandlePrepareReply records a resource's XA_OK/failure for trid's
// prepare phase. Once every involved resource has replied XA_OK, the
// transaction durably transitions to prepared and it returns ready=true so the caller can reply ok to
// the originating commit_req. Any non-OK code transitions the whole
// transaction to rolling_back instead.
func (c *Coordinator) HandlePrepareReply(reply ProxyReply) (ready bool, shouldRollback bool, err error) {
	c.mu.Lock()
	t, ok := c.txns[reply.TRID]
	if !ok {
		c.mu.Unlock()
		return false, false, errors.Newf("transaction: unknown trid %s", reply.TRID)
	}
	t.Resources[reply.Resource] = reply.Code
	allOK := t.allResourcesOK()
	anyFail := t.anyFailed()
	c.mu.Unlock()

	if err := c.log.RecordXACode(reply.TRID, reply.Resource, string(reply.Code)); err != nil {
		return false, false, err
	}

	switch {
	case anyFail:
		c.mu.Lock()
		t.State = StateRollingBack
		c.mu.Unlock()
		if err := c.log.TransitionBatched(reply.TRID, txlog.StateRollingBack); err != nil {
			return false, false, err
		}
		return false, true, nil
	case allOK:
		c.mu.Lock()
		t.State = StatePrepared
		c.mu.Unlock()
		if err := c.log.TransitionPreparedDurable(reply.TRID); err != nil {
			return false, false, err
		}
		return true, false, nil
	default:
		return false, false, nil
	}
}

// Commit drives commit against every involved resource once prepared
// has been durably recorded.
func (c *Coordinator) Commit(trid string) error {
	return c.driveSecondPhase(trid, ProxyOpCommit, StateCommitting, txlog.StateCommitting)
}

// Rollback drives rollback against every involved resource, from either
// active or rolling_back.
func (c *Coordinator) Rollback(trid string) error {
	return c.driveSecondPhase(trid, ProxyOpRollback, StateRollingBack, txlog.StateRollingBack)
}

func (c *Coordinator) driveSecondPhase(trid string, op ProxyOp, mem State, durable txlog.State) error {
	c.mu.Lock()
	t, ok := c.txns[trid]
	if !ok {
		c.mu.Unlock()
		return errors.Newf("transaction: unknown trid %s", trid)
	}
	t.State = mem
	resources := make([]string, 0, len(t.Resources))
	for r := range t.Resources {
		resources = append(resources, r)
	}
	c.mu.Unlock()

	if err := c.log.TransitionBatched(trid, durable); err != nil {
		return err
	}

	for _, resource := range resources {
		if pool, ok := c.pools[resource]; ok {
			pool.Dispatch(ProxyRequest{TRID: trid, Op: op, Resource: resource})
			continue
		}
		if ext, ok := c.externals[resource]; ok {
			if err := ext.dispatch(ProxyRequest{TRID: trid, Op: op, Resource: resource}); err != nil {
				c.slog.Warnw("second-phase send to external failed", logger.FieldTRID, trid, logger.FieldResource, resource, logger.FieldError, err)
			}
		}
	}
	return nil
}

// HandleSecondPhaseReply finalizes trid once every resource has
// confirmed commit or rollback. A heuristic code from any resource
// transitions the whole transaction to the terminal heuristic state
// instead.
func (c *Coordinator) HandleSecondPhaseReply(reply ProxyReply, committing bool) (done bool, err error) {
	c.mu.Lock()
	t, ok := c.txns[reply.TRID]
	if !ok {
		c.mu.Unlock()
		return false, errors.Newf("transaction: unknown trid %s", reply.TRID)
	}
	t.Resources[reply.Resource] = reply.Code
	heuristic := t.anyHeuristic()
	allOK := t.allResourcesOK()
	c.mu.Unlock()

	if err := c.log.RecordXACode(reply.TRID, reply.Resource, string(reply.Code)); err != nil {
		return false, err
	}

	if heuristic {
		if err := c.log.RecordHeuristic(reply.TRID, reply.Resource+"="+string(reply.Code)); err != nil {
			return false, err
		}
		c.mu.Lock()
		t.State = StateHeuristic
		c.mu.Unlock()
		return true, nil
	}
	if !allOK {
		return false, nil
	}

	finalState, durable := StateRolledBack, txlog.StateRolledBack
	if committing {
		finalState, durable = StateCommitted, txlog.StateCommitted
	}
	c.mu.Lock()
	t.State = finalState
	c.mu.Unlock()
	if err := c.log.TransitionBatched(reply.TRID, durable); err != nil {
		return false, err
	}
	return true, nil
}

// CheckDeadlines returns the trids of every active transaction whose
// deadline has passed, for the caller to drive into Rollback.
func (c *Coordinator) CheckDeadlines(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var expired []string
	for trid, t := range c.txns {
		if t.State == StateActive && now.After(t.Deadline) {
			expired = append(expired, trid)
		}
	}
	return expired
}

// Forget drops a terminal transaction from the in-memory index; its
// durable record remains in the log for audit.
func (c *Coordinator) Forget(trid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.txns, trid)
}

// State reports a transaction's current in-memory state.
func (c *Coordinator) State(trid string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.txns[trid]
	if !ok {
		return "", false
	}
	return t.State, true
}

// TransactionSnapshot is one in-flight transaction's admin-visible
// state.
type TransactionSnapshot struct {
	TRID     string
	State    State
	Deadline time.Time
	Resources map[string]XACode
}

// Snapshot returns a point-in-time view of every transaction the
// Coordinator currently tracks in memory.
func (c *Coordinator) Snapshot() []TransactionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]TransactionSnapshot, 0, len(c.txns))
	for _, t := range c.txns {
		resources := make(map[string]XACode, len(t.Resources))
		for k, v := range t.Resources {
			resources[k] = v
		}
		out = append(out, TransactionSnapshot{
			TRID:      t.TRID,
			State:     t.State,
			Deadline:  t.Deadline,
			Resources: resources,
		})
	}
	return out
}

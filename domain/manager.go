package domain

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/logger"
)

// restartRateLimit/restartRateBurst bound how often a single alias may
// be respawned by HandleExit: at most one restart every two seconds,
// with a burst of three to tolerate a handful of quick failures before
// throttling kicks in.
const (
	restartRateLimit = rate.Limit(0.5)
	restartRateBurst = 3
)

// Runlevel is the domain's coarse lifecycle state.
type Runlevel int

const (
	RunlevelBooting Runlevel = iota
	RunlevelRunning
	RunlevelShutdown
)

func (r Runlevel) String() string {
	switch r {
	case RunlevelBooting:
		return "booting"
	case RunlevelRunning:
		return "running"
	case RunlevelShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ConnectDirective is the domain manager's reply to a connect_request.
type ConnectDirective int

const (
	DirectiveStart ConnectDirective = iota
	DirectiveSingleton
	DirectiveShutdown
)

// ConnectRequest is sent by a freshly spawned child.
type ConnectRequest struct {
	Identity uuid.UUID // zero value if the child has no well-known identity
	PID      int
	IPC      string
	Path     string
	Alias    string
}

// ConnectReply answers a ConnectRequest.
type ConnectReply struct {
	Directive ConnectDirective
}

// LookupDirective selects how HandleLookup behaves when no match exists
// yet.
type LookupDirective int

const (
	LookupDirect LookupDirective = iota
	LookupWait
)

// LookupRequest asks for a handle by identity or pid.
type LookupRequest struct {
	Identity  uuid.UUID
	PID       int
	Directive LookupDirective
}

type pendingLookup struct {
	req   LookupRequest
	reply chan *Handle
}

// Manager is the Domain Manager: owner of the pid/identity handle
// registry, the boot graph, and the supervised-process lifecycle. All
// state mutation happens through its exported methods under a single
// mutex, matching a single-threaded-per-manager model — the mutex
// stands in for "one goroutine processing one inbound queue"
// since tests call methods directly rather than only through a wire.
type Manager struct {
	mu  sync.Mutex
	cfg config.DomainConfig

	spawner Spawner
	log     *zap.SugaredLogger

	runlevel Runlevel

	byPID      map[int]*Handle
	byIdentity map[uuid.UUID]*Handle
	dead       map[int]bool

	pending   []*pendingLookup
	listeners []chan Exit

	targetInstances map[string]int // alias -> desired instance count
	execByAlias     map[string]config.ExecConfig
	restartLimiters map[string]*rate.Limiter // alias -> restart-storm guard
}

// New constructs a Manager from domain configuration and a Spawner. Pass
// NewProcessSpawner() for a live domain; tests pass a fake.
func New(cfg config.DomainConfig, spawner Spawner) *Manager {
	m := &Manager{
		cfg:             cfg,
		spawner:         spawner,
		log:             logger.Named("domain"),
		runlevel:        RunlevelBooting,
		byPID:           make(map[int]*Handle),
		byIdentity:      make(map[uuid.UUID]*Handle),
		dead:            make(map[int]bool),
		targetInstances: make(map[string]int),
		execByAlias:     make(map[string]config.ExecConfig),
		restartLimiters: make(map[string]*rate.Limiter),
	}
	for _, g := range cfg.Groups {
		for _, e := range g.Executables {
			m.execByAlias[e.Alias] = e
			m.targetInstances[e.Alias] = e.TargetInstances
		}
	}
	return m
}

// Runlevel reports the domain's current lifecycle state.
func (m *Manager) Runlevel() Runlevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runlevel
}

// Boot spawns every configured group in stable topological order, waiting
// for every member's connect before proceeding to the next group. It
// transitions to shutdown and returns an error if any group fails to
// complete within its deadline.
func (m *Manager) Boot(ctx context.Context, connects <-chan ConnectRequest) error {
	order, err := bootOrder(m.cfg.Groups)
	if err != nil {
		return err
	}

	deadline := m.cfg.BootDeadline
	if deadline <= 0 {
		deadline = 30 * time.Second
	}

	for _, group := range order {
		expected := len(group.Executables)
		if expected == 0 {
			continue
		}
		env := m.exportedEnv()
		for _, ec := range group.Executables {
			if _, err := m.spawner.Spawn(ec, env); err != nil {
				m.transitionShutdown()
				return errors.Wrapf(err, "domain: boot group %q", group.Name)
			}
		}

		timer := time.NewTimer(deadline)
		booted := 0
		for booted < expected {
			select {
			case req := <-connects:
				if _, err := m.HandleConnect(req); err != nil {
					m.log.Warnw("connect during boot failed", logger.FieldError, err)
					continue
				}
				booted++
			case <-timer.C:
				m.transitionShutdown()
				return errors.Newf("domain: boot group %q did not complete within %s", group.Name, deadline)
			case <-ctx.Done():
				m.transitionShutdown()
				return ctx.Err()
			}
		}
		timer.Stop()
	}

	m.mu.Lock()
	m.runlevel = RunlevelRunning
	m.mu.Unlock()
	return nil
}

func (m *Manager) transitionShutdown() {
	m.mu.Lock()
	m.runlevel = RunlevelShutdown
	m.mu.Unlock()
}

// exportedEnv returns the CASUAL_*_IPC environment entries for every
// currently registered singleton, so newly spawned children can locate
// them without a domain-manager round trip.
func (m *Manager) exportedEnv() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var env []string
	for identity, h := range m.byIdentity {
		if name, ok := EnvVarForIdentity(identity); ok {
			env = append(env, name+"="+h.IPC)
		}
	}
	return env
}

// HandleConnect processes a connect_request, recording (identity→handle)
// and (pid→handle) atomically and deciding start/singleton/shutdown.
func (m *Manager) HandleConnect(req ConnectRequest) (ConnectReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runlevel == RunlevelShutdown {
		return ConnectReply{Directive: DirectiveShutdown}, nil
	}

	if req.Identity != uuid.Nil {
		if _, taken := m.byIdentity[req.Identity]; taken {
			return ConnectReply{Directive: DirectiveSingleton}, nil
		}
	}

	h := &Handle{
		PID:      req.PID,
		Identity: req.Identity,
		IPC:      req.IPC,
		Path:     req.Path,
		Alias:    req.Alias,
	}
	m.byPID[req.PID] = h
	if req.Identity != uuid.Nil {
		m.byIdentity[req.Identity] = h
	}
	delete(m.dead, req.PID)

	m.drainPendingLocked()

	return ConnectReply{Directive: DirectiveStart}, nil
}

// HandleLookup resolves a lookup_request. direct replies immediately
// (nil handle if absent); wait parks the request until a matching
// connect arrives or, for a lookup by PID, that PID is known dead (nil
// handle). The requester's own liveness is not checked.
func (m *Manager) HandleLookup(req LookupRequest) *Handle {
	m.mu.Lock()

	if h := m.resolveLocked(req); h != nil {
		m.mu.Unlock()
		return h
	}
	if req.Directive == LookupDirect {
		m.mu.Unlock()
		return nil
	}

	reply := make(chan *Handle, 1)
	m.pending = append(m.pending, &pendingLookup{req: req, reply: reply})
	m.mu.Unlock()

	return <-reply
}

func (m *Manager) resolveLocked(req LookupRequest) *Handle {
	if req.Identity != uuid.Nil {
		if h, ok := m.byIdentity[req.Identity]; ok {
			return h
		}
		return nil
	}
	if h, ok := m.byPID[req.PID]; ok {
		return h
	}
	return nil
}

// drainPendingLocked resolves any parked wait-lookups now satisfiable by
// the current registry state. Must be called with m.mu held.
func (m *Manager) drainPendingLocked() {
	var remaining []*pendingLookup
	for _, p := range m.pending {
		if h := m.resolveLocked(p.req); h != nil {
			p.reply <- h
			continue
		}
		if p.req.PID != 0 && m.dead[p.req.PID] {
			p.reply <- nil
			continue
		}
		remaining = append(remaining, p)
	}
	m.pending = remaining
}

// Subscribe registers a channel to receive Exit events. The channel must be drained by the caller.
func (m *Manager) Subscribe() <-chan Exit {
	ch := make(chan Exit, 16)
	m.mu.Lock()
	m.listeners = append(m.listeners, ch)
	m.mu.Unlock()
	return ch
}

// HandleExit translates a SIGCHLD notification into an Exit event, fans
// it out to subscribers, and restarts the process if it was a
// manager-supervised server configured with restart=true while the
// domain is running.
func (m *Manager) HandleExit(pid, status int, reason ExitReason) {
	m.mu.Lock()
	h, known := m.byPID[pid]
	delete(m.byPID, pid)
	if known && h.Identity != uuid.Nil {
		delete(m.byIdentity, h.Identity)
	}
	m.dead[pid] = true
	m.drainPendingLocked()

	var alias string
	if known {
		alias = h.Alias
	}
	runlevel := m.runlevel
	listeners := append([]chan Exit(nil), m.listeners...)
	m.mu.Unlock()

	ev := Exit{PID: pid, Status: status, Reason: reason}
	for _, l := range listeners {
		select {
		case l <- ev:
		default:
		}
	}

	if !known || runlevel != RunlevelRunning {
		return
	}
	ec, ok := m.execByAlias[alias]
	if !ok || !ec.Restart {
		return
	}
	if !m.allowRestart(alias) {
		m.log.Warnw("domain: restart suppressed, alias is flapping", logger.FieldAlias, alias)
		return
	}
	env := m.exportedEnv()
	if _, err := m.spawner.Spawn(ec, env); err != nil {
		m.log.Errorw("domain: restart failed", logger.FieldError, err)
	}
}

// allowRestart guards against restart storms: an alias whose process
// keeps crashing gets throttled rather than respawned as fast as it
// dies, one rate.Limiter per alias lazily created on first restart.
func (m *Manager) allowRestart(alias string) bool {
	m.mu.Lock()
	lim, ok := m.restartLimiters[alias]
	if !ok {
		lim = rate.NewLimiter(restartRateLimit, restartRateBurst)
		m.restartLimiters[alias] = lim
	}
	m.mu.Unlock()
	return lim.Allow()
}

// Scale changes the target instance count for alias, reporting how many
// new instances must be spawned (positive) or shut down (negative) by
// the caller. The caller performs the actual spawn
// or cooperative shutdown_request/SIGTERM sequence.
func (m *Manager) Scale(alias string, target int) (delta int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ec, ok := m.execByAlias[alias]
	if !ok {
		return 0, errors.Newf("domain: unknown executable alias %q", alias)
	}
	current := 0
	for _, h := range m.byPID {
		if h.Alias == alias {
			current++
		}
	}
	m.targetInstances[alias] = target
	_ = ec
	return target - current, nil
}

// Handles returns a snapshot of every registered handle, keyed by pid.
func (m *Manager) Handles() map[int]Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]Handle, len(m.byPID))
	for pid, h := range m.byPID {
		out[pid] = *h
	}
	return out
}

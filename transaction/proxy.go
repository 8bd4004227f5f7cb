package transaction

import (
	"sync"

	"github.com/google/uuid"

	"github.com/casual-mw/casual/errors"
)

// ProxyOp is one unit of work sent to an XA resource proxy.
type ProxyOp int

const (
	ProxyOpPrepare ProxyOp = iota
	ProxyOpCommit
	ProxyOpRollback
)

// ProxyRequest is routed to an idle proxy process for resource.
type ProxyRequest struct {
	TRID     string
	Op       ProxyOp
	Resource string
}

// ProxyReply carries a proxy's XA return code back to the coordinator.
type ProxyReply struct {
	TRID     string
	Resource string
	Code     XACode
}

// proxy is one member of a resource's proxy pool.
type proxy struct {
	PID  uuid.UUID
	Busy bool
}

// ProxyPool routes prepare/commit/rollback requests to idle proxy
// processes for one XA resource, parking requests in a persistent queue
// when every proxy is busy.
type ProxyPool struct {
	mu       sync.Mutex
	resource string
	proxies  []*proxy
	pending  []ProxyRequest
}

// NewProxyPool constructs a pool with the given proxy pids already
// registered idle.
func NewProxyPool(resource string, pids []uuid.UUID) *ProxyPool {
	p := &ProxyPool{resource: resource}
	for _, pid := range pids {
		p.proxies = append(p.proxies, &proxy{PID: pid})
	}
	return p
}

// Dispatch routes req to an idle proxy, returning its pid, or parks it
// and returns ok=false if every proxy is currently busy.
func (p *ProxyPool) Dispatch(req ProxyRequest) (pid uuid.UUID, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, px := range p.proxies {
		if !px.Busy {
			px.Busy = true
			return px.PID, true
		}
	}
	p.pending = append(p.pending, req)
	return uuid.Nil, false
}

// Release marks pid idle again and, if requests are parked, immediately
// dispatches the oldest one, returning it so the caller can forward it.
func (p *ProxyPool) Release(pid uuid.UUID) (next *ProxyRequest, nextPID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var px *proxy
	for _, candidate := range p.proxies {
		if candidate.PID == pid {
			px = candidate
			break
		}
	}
	if px == nil {
		return nil, uuid.Nil
	}

	if len(p.pending) == 0 {
		px.Busy = false
		return nil, uuid.Nil
	}

	req := p.pending[0]
	p.pending = p.pending[1:]
	return &req, px.PID
}

// AddProxy registers an additional proxy process, idle.
func (p *ProxyPool) AddProxy(pid uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxies = append(p.proxies, &proxy{PID: pid})
}

// RemoveProxy drops a crashed or shut-down proxy process. Any request it
// was handling is the caller's responsibility to re-route.
func (p *ProxyPool) RemoveProxy(pid uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, px := range p.proxies {
		if px.PID == pid {
			p.proxies = append(p.proxies[:i], p.proxies[i+1:]...)
			return nil
		}
	}
	return errors.Newf("transaction: unknown proxy %s for resource %s", pid, p.resource)
}

// PendingCount reports how many requests are parked waiting for an idle
// proxy.
func (p *ProxyPool) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

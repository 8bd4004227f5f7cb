package service

import (
	"time"

	"github.com/google/uuid"
)

// ForwardCachePID is the handle returned in step 4 of Lookup when a
// no_reply call finds no local or remote instance: the caller fires and
// forgets, and the forward cache re-dispatches later. It is set by the owning process at startup once it has
// resolved the forward-cache singleton's handle.
var ForwardCachePID uuid.UUID

// LookupRequest asks to resolve requested under the given call context.
type LookupRequest struct {
	Requested   string
	Caller      uuid.UUID
	Correlation uuid.UUID
	Context     LookupContext
	PreferRemote bool
}

// Lookup implements the five-step resolution order:
//  1. resolve through routes, absent if unknown
//  2. reserve an idle sequential instance
//  3. else use the first (lowest hops/order) concurrent instance
//  4. else, for no_reply, hand off to the forward cache
//  5. else park as a pending lookup and reply busy
func (m *Manager) Lookup(req LookupRequest) LookupResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.serviceLocked(req.Requested)
	if s == nil {
		return LookupResult{Status: StatusAbsent}
	}

	if !req.PreferRemote {
		if inst := m.reserveIdleSequentialLocked(s, req); inst != nil {
			return LookupResult{Status: StatusIdle, Instance: inst.PID}
		}
	}

	if len(s.Concurrent) > 0 && (len(s.Sequential) == 0 || req.PreferRemote) {
		s.Metric.Remote++
		return LookupResult{Status: StatusIdle, Instance: s.Concurrent[0].PID}
	}

	if req.Context == ContextNoReply {
		return LookupResult{Status: StatusIdle, Instance: ForwardCachePID}
	}

	m.pending = append(m.pending, &PendingLookup{
		Service:     s.Name,
		Caller:      req.Caller,
		Correlation: req.Correlation,
		Context:     req.Context,
		createdAt:   time.Now(),
	})
	return LookupResult{Status: StatusBusy}
}

// reserveIdleSequentialLocked picks the first idle sequential instance in
// insertion order.
func (m *Manager) reserveIdleSequentialLocked(s *Service, req LookupRequest) *SequentialInstance {
	for _, inst := range s.Sequential {
		if !inst.Busy {
			inst.Busy = true
			inst.Caller = req.Caller
			inst.Correlation = req.Correlation
			inst.ReservedAt = time.Now()
			s.Metric.Count++
			return inst
		}
	}
	return nil
}

package service

import "github.com/google/uuid"

// Ack unreserves the calling process's instance for service, records the
// call's metric, and drains pending lookups in FIFO order for any service
// whose now-idle instance satisfies them.
func (m *Manager) Ack(req AckRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.serviceLocked(req.Service)
	if s == nil {
		return errUnknownInstance
	}
	var inst *SequentialInstance
	for _, candidate := range s.Sequential {
		if candidate.PID == req.Process.PID && candidate.Busy {
			inst = candidate
			break
		}
	}
	if inst == nil {
		return errUnknownInstance
	}

	inst.Busy = false
	inst.Caller = uuid.Nil
	inst.Correlation = uuid.Nil
	s.Metric.TotalDurationNS += req.End.Sub(req.Start).Nanoseconds()
	if req.Error {
		s.Metric.ErrorCount++
	}

	m.drainPendingLocked()
	return nil
}

// drainPendingLocked walks pending.lookups in FIFO order, reserving and
// dispatching any that can now be satisfied; it stops reserving for a
// given service as soon as that service runs out of idle instances
// again.
func (m *Manager) drainPendingLocked() []DispatchedLookup {
	var dispatched []DispatchedLookup
	var remaining []*PendingLookup

	for _, p := range m.pending {
		s := m.serviceLocked(p.Service)
		if s == nil {
			remaining = append(remaining, p)
			continue
		}
		if inst := m.reserveIdleSequentialLocked(s, LookupRequest{Caller: p.Caller, Correlation: p.Correlation}); inst != nil {
			dispatched = append(dispatched, DispatchedLookup{Pending: *p, Instance: inst.PID})
			continue
		}
		remaining = append(remaining, p)
	}
	m.pending = remaining
	return dispatched
}

// DispatchedLookup is a pending lookup that was just satisfied by a
// drain pass; Instance is now reserved for it. HandleExit returns these
// to its caller. Ack and Advertise drain as well but discard the list, so
// the callers of lookups satisfied there get no reply from this package.
type DispatchedLookup struct {
	Pending  PendingLookup
	Instance uuid.UUID
}

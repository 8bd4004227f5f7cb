package service

import "github.com/google/uuid"

// HandleExit removes every instance owned by pid. If a removed sequential
// instance was busy, a ServiceErrorReply is synthesized toward its
// recorded caller+correlation *before* the instance is removed, so the
// caller never deadlocks waiting on a reply that will now never arrive.
func (m *Manager) HandleExit(pid uuid.UUID) (errorReplies []ServiceErrorReply, dispatched []DispatchedLookup) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.services {
		var kept []*SequentialInstance
		for _, inst := range s.Sequential {
			if inst.PID != pid {
				kept = append(kept, inst)
				continue
			}
			if inst.Busy {
				errorReplies = append(errorReplies, ServiceErrorReply{
					Caller:      inst.Caller,
					Correlation: inst.Correlation,
					Reason:      "service_error: reserved instance exited",
				})
			}
		}
		s.Sequential = kept
		s.Concurrent = removeConcurrent(s.Concurrent, pid)
		m.removeIfEmptyLocked(s)
	}

	dispatched = m.drainPendingLocked()
	return errorReplies, dispatched
}

// DiscardRequest clears a pending-lookup entry whose caller crashed
// before a reply was produced.
func (m *Manager) DiscardRequest(caller, correlation uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.pending {
		if p.Caller == caller && p.Correlation == correlation {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

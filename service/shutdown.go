package service

import "github.com/google/uuid"

// PrepareShutdownRequest lists pids a process wants to take out of
// service before it exits.
type PrepareShutdownRequest struct {
	Processes []uuid.UUID
}

// PrepareShutdownReply lists the pids whose in-flight calls the Service
// Manager will still ACK through.
type PrepareShutdownReply struct {
	StillInFlight []uuid.UUID
}

// PrepareShutdown immediately unadvertises every service for the given
// pids, drops the pending lookups parked on the services it touched, and
// reports which pids have an in-flight (busy) call that will still be
// ACKed. The dropped lookups are not answered: no absent reply is
// produced for them, here or in the returned PrepareShutdownReply.
func (m *Manager) PrepareShutdown(req PrepareShutdownRequest) PrepareShutdownReply {
	m.mu.Lock()
	defer m.mu.Unlock()

	affected := make(map[uuid.UUID]bool, len(req.Processes))
	for _, pid := range req.Processes {
		affected[pid] = true
	}

	var stillInFlight []uuid.UUID
	var affectedServices []string

	for name, s := range m.services {
		var kept []*SequentialInstance
		for _, inst := range s.Sequential {
			if !affected[inst.PID] {
				kept = append(kept, inst)
				continue
			}
			if inst.Busy {
				stillInFlight = append(stillInFlight, inst.PID)
			}
			affectedServices = append(affectedServices, name)
		}
		s.Sequential = kept
		m.removeIfEmptyLocked(s)
	}

	m.failPendingForServicesLocked(affectedServices)

	return PrepareShutdownReply{StillInFlight: stillInFlight}
}

// failPendingForServicesLocked removes every pending lookup for the named
// services from the pending list without replying to it. Later lookups
// for a service that PrepareShutdown removed entirely resolve to absent
// through Lookup.
func (m *Manager) failPendingForServicesLocked(services []string) {
	if len(services) == 0 {
		return
	}
	affected := make(map[string]bool, len(services))
	for _, name := range services {
		affected[name] = true
	}
	var remaining []*PendingLookup
	for _, p := range m.pending {
		if affected[p.Service] {
			continue // caller is notified out-of-band by the discard path
		}
		remaining = append(remaining, p)
	}
	m.pending = remaining
}

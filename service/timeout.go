package service

import "time"

// CheckTimeouts scans busy sequential instances for ones whose reservation
// has outlived their timeout and returns the Assassination events to
// raise for them. The caller
// drives this periodically from its single timer, per the cooperative
// event-loop model. now is injectable so tests don't depend on
// a real clock.
func (m *Manager) CheckTimeouts(now func() time.Time) []Assassination {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Assassination
	for _, s := range m.services {
		for _, inst := range s.Sequential {
			if !inst.Busy || inst.Timeout <= 0 {
				continue
			}
			if now().Sub(inst.ReservedAt) >= inst.Timeout {
				out = append(out, Assassination{TargetPID: inst.PID, Contract: inst.Contract})
			}
		}
	}
	return out
}

// ApplyAssassination resolves an Assassination under its contract: kill
// terminates the owning instance and yields a timeout ServiceErrorReply
// for its caller; linger only notifies the caller while the instance
// keeps running.
func (m *Manager) ApplyAssassination(a Assassination) (shouldKill bool, reply *ServiceErrorReply) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.services {
		for _, inst := range s.Sequential {
			if inst.PID == a.TargetPID && inst.Busy {
				r := &ServiceErrorReply{Caller: inst.Caller, Correlation: inst.Correlation, Reason: "timeout"}
				if a.Contract == ContractKill {
					return true, r
				}
				return false, r
			}
		}
	}
	return false, nil
}

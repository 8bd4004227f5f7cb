package service

// Advertise upserts a sequential instance for the advertising process and
// applies the add/remove service name sets.
func (m *Manager) Advertise(req AdvertiseRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range req.Add {
		s := m.ensureServiceLocked(name)
		if m.findSequentialLocked(s, req.Process.PID) == nil {
			s.Sequential = append(s.Sequential, &SequentialInstance{
				PID:      req.Process.PID,
				Process:  req.Process,
				Timeout:  m.defaultTimeout,
				Contract: m.defaultContract,
			})
		}
	}
	for _, name := range req.Remove {
		s := m.serviceLocked(name)
		if s == nil {
			continue
		}
		s.Sequential = removeSequential(s.Sequential, req.Process.PID)
		m.removeIfEmptyLocked(s)
	}

	m.drainPendingLocked()
}

func (m *Manager) findSequentialLocked(s *Service, pid interface{ String() string }) *SequentialInstance {
	for _, inst := range s.Sequential {
		if inst.PID.String() == pid.String() {
			return inst
		}
	}
	return nil
}

func removeSequential(list []*SequentialInstance, pid interface{ String() string }) []*SequentialInstance {
	out := list[:0]
	for _, inst := range list {
		if inst.PID.String() != pid.String() {
			out = append(out, inst)
		}
	}
	return out
}

// ConcurrentAdvertise is Advertise's remote-instance counterpart. Instance
// lists are kept sorted by (hops asc, order asc); insertion order among
// equal keys breaks ties stably.
func (m *Manager) ConcurrentAdvertise(req ConcurrentAdvertiseRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range req.Add {
		s := m.ensureServiceLocked(name)
		if existing := findConcurrent(s, req.Process.PID); existing != nil {
			existing.Hops = req.Hops
			existing.Order = req.Order
		} else {
			s.Concurrent = append(s.Concurrent, &ConcurrentInstance{
				PID:   req.Process.PID,
				Hops:  req.Hops,
				Order: req.Order,
			})
		}
		sortConcurrentStable(s.Concurrent)
	}
	for _, name := range req.Remove {
		s := m.serviceLocked(name)
		if s == nil {
			continue
		}
		s.Concurrent = removeConcurrent(s.Concurrent, req.Process.PID)
		m.removeIfEmptyLocked(s)
	}

	m.drainPendingLocked()
}

func findConcurrent(s *Service, pid interface{ String() string }) *ConcurrentInstance {
	for _, inst := range s.Concurrent {
		if inst.PID.String() == pid.String() {
			return inst
		}
	}
	return nil
}

func removeConcurrent(list []*ConcurrentInstance, pid interface{ String() string }) []*ConcurrentInstance {
	out := list[:0]
	for _, inst := range list {
		if inst.PID.String() != pid.String() {
			out = append(out, inst)
		}
	}
	return out
}

// sortConcurrentStable performs an insertion sort by (hops, order): the
// list is always nearly sorted (one element just changed), and insertion
// sort preserves the relative order of untouched equal-key elements,
// which a general-purpose unstable sort would not guarantee here.
func sortConcurrentStable(list []*ConcurrentInstance) {
	for i := 1; i < len(list); i++ {
		j := i
		for j > 0 && less(list[j], list[j-1]) {
			list[j], list[j-1] = list[j-1], list[j]
			j--
		}
	}
}

func less(a, b *ConcurrentInstance) bool {
	if a.Hops != b.Hops {
		return a.Hops < b.Hops
	}
	return a.Order < b.Order
}

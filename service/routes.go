package service

// AddRoute registers alias as another name for the canonical service
// origin, so a lookup for alias resolves to origin while the Service
// record itself keeps the origin name for ACK accounting.
func (m *Manager) AddRoute(origin, alias string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[alias] = origin
}

// RemoveRoute undoes AddRoute.
func (m *Manager) RemoveRoute(alias string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.routes, alias)
}

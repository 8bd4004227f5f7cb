package domain

import "github.com/casual-mw/casual/domain/events"

// ForwardExits relays this manager's Exit events to hub until ch is
// closed. The Manager never closes the channels it hands out from
// Subscribe, so a goroutine fed by one runs for the life of the process.
// Call as `go m.ForwardExits(m.Subscribe(), hub)`.
func (m *Manager) ForwardExits(ch <-chan Exit, hub *events.Hub) {
	for ev := range ch {
		hub.Broadcast("exit", ev)
	}
}

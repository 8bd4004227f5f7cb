// Package domain implements the Domain Manager: boot/shutdown
// orchestration over a dependency graph, the pid/identity handle registry,
// the singleton registry for well-known manager processes, and runtime
// scaling. A single-threaded owner of a map, mutated only through
// request/reply methods, supervising child processes rather than
// plugins.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Handle identifies a booted process: its pid, the local IPC address it
// registered with, and the identity it connected under (if any).
type Handle struct {
	PID      int
	Identity uuid.UUID
	IPC      string
	Path     string
	Alias    string
	bootedAt time.Time
}

// ExitReason classifies how a supervised process terminated.
type ExitReason int

const (
	ExitReasonExited ExitReason = iota
	ExitReasonSignaled
	ExitReasonCore
	ExitReasonStopped
	ExitReasonContinued
)

func (r ExitReason) String() string {
	switch r {
	case ExitReasonExited:
		return "exited"
	case ExitReasonSignaled:
		return "signaled"
	case ExitReasonCore:
		return "core"
	case ExitReasonStopped:
		return "stopped"
	case ExitReasonContinued:
		return "continued"
	default:
		return "unknown"
	}
}

// Exit is the event synthesized from a SIGCHLD and fanned out to
// subscribed listeners.
type Exit struct {
	PID    int
	Status int
	Reason ExitReason
}

package domain

import (
	"os"
	"syscall"
	"time"

	"github.com/casual-mw/casual/logger"
)

// Shutdown transitions the domain to shutdown runlevel and asks every
// registered process to stop cooperatively, escalating to SIGTERM for
// any that have not exited within ShutdownGrace.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.runlevel = RunlevelShutdown
	pids := make([]int, 0, len(m.byPID))
	for pid := range m.byPID {
		pids = append(pids, pid)
	}
	grace := m.cfg.ShutdownGrace
	m.mu.Unlock()

	if grace <= 0 {
		grace = 5 * time.Second
	}

	// shutdown_request is delivered over IPC in the live system; signaling
	// with os.Interrupt here stands in for that cooperative message when
	// driving a real *Spawner.
	for _, pid := range pids {
		if err := m.spawner.Signal(pid, os.Interrupt); err != nil {
			m.log.Warnw("shutdown_request delivery failed", logger.FieldPID, pid, logger.FieldError, err)
		}
	}

	time.Sleep(grace)
	m.escalate(pids)
}

func (m *Manager) stillAlive(pid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.dead[pid]
}

func (m *Manager) escalate(pids []int) {
	for _, pid := range pids {
		if !m.stillAlive(pid) {
			continue
		}
		if err := m.spawner.Signal(pid, syscall.SIGTERM); err != nil {
			m.log.Warnw("sigterm delivery failed", logger.FieldPID, pid, logger.FieldError, err)
		}
	}
}

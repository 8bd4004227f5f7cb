package domain

import (
	"os"
	"os/exec"

	"github.com/casual-mw/casual/config"
	"github.com/casual-mw/casual/errors"
)

// Spawner starts configured executables as child processes. It is an
// interface so the boot/scale logic can be exercised in tests without
// forking real processes, isolating *exec.Cmd behind a narrow seam.
type Spawner interface {
	Spawn(exec config.ExecConfig, env []string) (pid int, err error)
	Signal(pid int, sig os.Signal) error
	Wait(pid int) (status int, reason ExitReason, err error)
}

// processSpawner spawns real OS processes via os/exec.
type processSpawner struct {
	procs map[int]*exec.Cmd
}

// NewProcessSpawner returns a Spawner backed by os/exec.
func NewProcessSpawner() Spawner {
	return &processSpawner{procs: make(map[int]*exec.Cmd)}
}

func (s *processSpawner) Spawn(ec config.ExecConfig, env []string) (int, error) {
	cmd := exec.Command(ec.Path, ec.Args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "domain: spawn %s", ec.Alias)
	}
	pid := cmd.Process.Pid
	s.procs[pid] = cmd
	return pid, nil
}

func (s *processSpawner) Signal(pid int, sig os.Signal) error {
	cmd, ok := s.procs[pid]
	if !ok || cmd.Process == nil {
		return errors.Newf("domain: unknown pid %d", pid)
	}
	return cmd.Process.Signal(sig)
}

func (s *processSpawner) Wait(pid int) (int, ExitReason, error) {
	cmd, ok := s.procs[pid]
	if !ok {
		return 0, ExitReasonExited, errors.Newf("domain: unknown pid %d", pid)
	}
	err := cmd.Wait()
	delete(s.procs, pid)
	state := cmd.ProcessState
	if state == nil {
		return 0, ExitReasonExited, err
	}
	reason := ExitReasonExited
	if !state.Exited() {
		reason = ExitReasonSignaled
	}
	return state.ExitCode(), reason, nil
}

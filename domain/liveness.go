package domain

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/casual-mw/casual/errors"
)

// ResourceSample is a point-in-time CPU/memory reading for one managed
// process, used by the supervisor when deciding scale and restart
// policy (e.g. an alias whose instances are consistently pegged at high
// CPU is a candidate for a target_instances increase). Grounded in the
// teacher's pulse/async system-metrics helpers (system_metrics_linux.go),
// generalized from whole-host stats to a single PID via gopsutil's
// process package.
type ResourceSample struct {
	CPUPercent     float64
	MemoryRSSBytes uint64
}

// SampleResources reads a live process's current CPU and RSS usage.
// Errors surface when pid has already exited; the domain manager treats
// that as informational, not fatal, since Exit/HandleExit already owns
// reaping dead children.
func SampleResources(pid int) (ResourceSample, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ResourceSample{}, errors.Wrapf(err, "domain: open process %d for sampling", pid)
	}
	cpuPct, err := proc.CPUPercent()
	if err != nil {
		return ResourceSample{}, errors.Wrapf(err, "domain: sample cpu for %d", pid)
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return ResourceSample{}, errors.Wrapf(err, "domain: sample memory for %d", pid)
	}
	return ResourceSample{CPUPercent: cpuPct, MemoryRSSBytes: memInfo.RSS}, nil
}

// SampleHandles samples every currently tracked process, skipping (not
// failing on) individual processes that have already exited.
func (m *Manager) SampleHandles() map[int]ResourceSample {
	handles := m.Handles()
	out := make(map[int]ResourceSample, len(handles))
	for pid := range handles {
		if sample, err := SampleResources(pid); err == nil {
			out[pid] = sample
		}
	}
	return out
}

package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/logger"
)

// AdvertiseRequest upserts a sequential instance's offered service set.
type AdvertiseRequest struct {
	Process Process
	Add     []string
	Remove  []string
}

// ConcurrentAdvertiseRequest is Advertise's remote-instance counterpart,
// additionally carrying hop count and priority order.
type ConcurrentAdvertiseRequest struct {
	Process Process
	Hops    int
	Order   int
	Add     []string
	Remove  []string
}

// AckRequest reports completion of a reserved call.
type AckRequest struct {
	Process Process
	Service string
	Start   time.Time
	End     time.Time
	Error   bool
}

// Manager is the Service Manager: the authoritative registry of
// services, instances, routes, and pending lookups. Every exported
// method is called from the owning event loop and mutates state under
// one mutex, matching the single-threaded-per-manager model.
type Manager struct {
	mu sync.Mutex

	services map[string]*Service
	routes   map[string]string // alias -> origin (canonical) name
	pending  []*PendingLookup

	timeouts map[uuid.UUID]time.Duration // per-service default timeout override
	contracts map[uuid.UUID]Contract

	defaultTimeout  time.Duration
	defaultContract Contract

	log *zap.SugaredLogger
}

// New constructs an empty Service Manager.
func New(defaultTimeout time.Duration, defaultContract Contract) *Manager {
	return &Manager{
		services:  make(map[string]*Service),
		routes:    make(map[string]string),
		timeouts:  make(map[uuid.UUID]time.Duration),
		contracts: make(map[uuid.UUID]Contract),
		defaultTimeout:  defaultTimeout,
		defaultContract: defaultContract,
		log:             logger.Named("service"),
	}
}

func (m *Manager) serviceLocked(name string) *Service {
	canonical := name
	if origin, ok := m.routes[name]; ok {
		canonical = origin
	}
	return m.services[canonical]
}

func (m *Manager) ensureServiceLocked(name string) *Service {
	canonical := name
	if origin, ok := m.routes[name]; ok {
		canonical = origin
	}
	s, ok := m.services[canonical]
	if !ok {
		s = &Service{Name: canonical, Origin: canonical}
		m.services[canonical] = s
	}
	return s
}

// removeIfEmptyLocked drops a service record once it has no instances of
// either kind.
func (m *Manager) removeIfEmptyLocked(s *Service) {
	if len(s.Sequential) == 0 && len(s.Concurrent) == 0 {
		delete(m.services, s.Name)
	}
}

var errUnknownInstance = errors.New("service: ack references unknown instance")

// ServiceSnapshot is one service's admin-visible state.
type ServiceSnapshot struct {
	Name       string
	Sequential int
	Busy       int
	Concurrent int
	Metric     Metric
}

// Snapshot returns a point-in-time view of every advertised service,
// for admin tooling; it never mutates registry state.
func (m *Manager) Snapshot() []ServiceSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ServiceSnapshot, 0, len(m.services))
	for _, s := range m.services {
		busy := 0
		for _, inst := range s.Sequential {
			if inst.Busy {
				busy++
			}
		}
		out = append(out, ServiceSnapshot{
			Name:       s.Name,
			Sequential: len(s.Sequential),
			Busy:       busy,
			Concurrent: len(s.Concurrent),
			Metric:     s.Metric,
		})
	}
	return out
}

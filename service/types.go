// Package service implements the Service Manager: the service registry,
// sequential/concurrent instance tracking, pending lookups, routing, and
// the execution-timeout/assassination contract. The registry shape
// generalizes a single-process plugin registry into one registry of many
// remote-capable service instances, with worker-pool-style accounting
// for metric batching.
package service

import (
	"time"

	"github.com/google/uuid"
)

// Contract governs what happens when a reserved call's execution timeout
// fires.
type Contract int

const (
	ContractLinger Contract = iota
	ContractKill
)

func (c Contract) String() string {
	if c == ContractKill {
		return "kill"
	}
	return "linger"
}

// LookupContext selects lookup behavior.
type LookupContext int

const (
	ContextRegular LookupContext = iota
	ContextNoReply
	ContextForward
)

// Process identifies the caller/owner of an instance for ACK and exit
// accounting.
type Process struct {
	PID uuid.UUID
	IPC string
}

// SequentialInstance is a reservable, single-threaded local instance.
type SequentialInstance struct {
	PID       uuid.UUID
	Process   Process
	Busy      bool
	Caller    uuid.UUID // reserved caller's pid, when Busy
	Correlation uuid.UUID
	ReservedAt time.Time
	Timeout   time.Duration
	Contract  Contract
}

// ConcurrentInstance is a remote, gateway-routed instance that can serve
// more than one in-flight call at once.
type ConcurrentInstance struct {
	PID   uuid.UUID
	Hops  int
	Order int
}

// Service is one advertised name with its instance pools.
type Service struct {
	Name       string
	Origin     string // the advertised-under name before route aliasing
	Sequential []*SequentialInstance
	Concurrent []*ConcurrentInstance
	Metric     Metric
}

// Metric accumulates call counters for a service.
type Metric struct {
	Count  uint64
	Remote uint64
	ErrorCount uint64
	TotalDurationNS int64
}

// PendingLookup is a parked lookup waiting for an instance to free up.
type PendingLookup struct {
	Service     string
	Caller      uuid.UUID
	Correlation uuid.UUID
	Context     LookupContext
	createdAt   time.Time
}

// LookupResult is the outcome of a Lookup call.
type LookupResult struct {
	Status   LookupStatus
	Instance uuid.UUID // handle serving the call, if Status == Idle
}

// LookupStatus mirrors the wire reply codes for a lookup resolution.
type LookupStatus int

const (
	StatusAbsent LookupStatus = iota
	StatusIdle
	StatusBusy
)

// Assassination is emitted when a service's execution timeout fires.
type Assassination struct {
	TargetPID uuid.UUID
	Contract  Contract
}

// ServiceErrorReply is synthesized toward a caller whose reserved
// instance died or whose service vanished mid-call.
type ServiceErrorReply struct {
	Caller      uuid.UUID
	Correlation uuid.UUID
	Reason      string
}

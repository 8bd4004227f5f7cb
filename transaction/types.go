// Package transaction implements the Transaction Manager:
// the two-phase-commit coordinator driving XA resource proxies and
// Gateway-presented external resources, backed by the durable
// txlog. It mirrors the Service Manager's single-threaded,
// mutex-guarded-state shape (service/registry.go) since both managers
// share the same cooperative event-loop model.
package transaction

import (
	"time"

	"github.com/google/uuid"
)

// XACode is a standard XA return code.
type XACode string

const (
	XAOK        XACode = "XA_OK"
	XARBROLLBACK XACode = "XA_RBROLLBACK"
	XAHeuristic XACode = "XA_HEURMIX"
)

// State mirrors txlog.State for callers that don't want to import the
// persistence package directly.
type State string

const (
	StateActive      State = "active"
	StatePreparing   State = "preparing"
	StatePrepared    State = "prepared"
	StateCommitting  State = "committing"
	StateCommitted   State = "committed"
	StateRollingBack State = "rolling_back"
	StateRolledBack  State = "rolled_back"
	StateHeuristic   State = "heuristic"
)

// transactionState is the in-memory half of a transaction: the durable
// Record plus volatile coordination bookkeeping (which proxies are still
// outstanding, etc).
type transactionState struct {
	TRID      string
	State     State
	Deadline  time.Time
	Resources map[string]XACode // resource name -> last observed code ("" = pending)
	Caller    uuid.UUID
}

func newTransactionState(trid string, deadline time.Time) *transactionState {
	return &transactionState{
		TRID:      trid,
		State:     StateActive,
		Deadline:  deadline,
		Resources: make(map[string]XACode),
	}
}

func (t *transactionState) allResourcesOK() bool {
	for _, code := range t.Resources {
		if code != XAOK {
			return false
		}
	}
	return true
}

func (t *transactionState) anyHeuristic() bool {
	for _, code := range t.Resources {
		if code == XAHeuristic {
			return true
		}
	}
	return false
}

func (t *transactionState) anyFailed() bool {
	for _, code := range t.Resources {
		if code != "" && code != XAOK {
			return true
		}
	}
	return false
}

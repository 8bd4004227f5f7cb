package errors

// Sentinel error kinds. Managers wrap one of these with Wrap/WithDetail
// so callers can still recover the kind with Is while getting a stack
// trace and context specific to the failing call.
var (
	// ErrAbsent: requested resource is not known. Replied to the caller
	// as a first-class lookup state, not just an error return.
	ErrAbsent = New("absent")

	// ErrNoEntry: a service has no live instance of any kind. Surfaced
	// to an XATMI caller as TPENOENT.
	ErrNoEntry = New("no_entry")

	// ErrTimeout: a deadline was exceeded. May trigger assassination of
	// the reserved instance under the "kill" contract.
	ErrTimeout = New("timeout")

	// ErrServiceError: the reserved instance died mid-call; a reply is
	// synthesized so the caller does not deadlock.
	ErrServiceError = New("service_error")

	// ErrCommunicationUnavailable: an IPC or TCP peer is gone.
	ErrCommunicationUnavailable = New("communication_unavailable")

	// ErrProtocolVersion: gateway version negotiation failed; the
	// connection is closed.
	ErrProtocolVersion = New("protocol_version")

	// ErrInvalidSemantics: an internal invariant was violated.
	ErrInvalidSemantics = New("invalid_semantics")

	// ErrHeuristic: a resource returned a heuristic XA outcome; the
	// transaction is terminal and needs operator intervention.
	ErrHeuristic = New("xa_heuristic")
)

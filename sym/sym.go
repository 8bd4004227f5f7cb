// Package sym defines the stable message-type identifiers used on the
// wire and a handful of short glyphs used by the logger to tag which
// manager emitted a given line.
package sym

// MessageType is the stable integer tag carried in every transport.Header.
// The ranges below partition the space by owning domain: utility (500s),
// domain (1000s), server (2000s), service (3000s), event (4000s),
// transaction (5000s), queue (6000s), gateway (7000s), signal (8000s).
type MessageType int32

const (
	// Utility (500s)
	MsgTimeout        MessageType = 500
	MsgDiscardRequest MessageType = 501
	MsgDiscarded      MessageType = 502
	MsgReplied        MessageType = 503

	// Domain (1000s)
	MsgConnectRequest  MessageType = 1000
	MsgConnectReply    MessageType = 1001
	MsgLookupRequest   MessageType = 1010
	MsgLookupReply     MessageType = 1011
	MsgScaleExecutable MessageType = 1020
	MsgShutdownRequest MessageType = 1030
	MsgShutdownAck     MessageType = 1031

	// Server / process supervision (2000s)
	MsgExit          MessageType = 2000
	MsgPrepareShut   MessageType = 2010
	MsgAssassination MessageType = 2020

	// Service (3000s)
	MsgAdvertise           MessageType = 3000
	MsgConcurrentAdvertise MessageType = 3001
	MsgServiceLookup       MessageType = 3010
	MsgServiceBusy         MessageType = 3011
	MsgServiceIdle         MessageType = 3012
	MsgServiceAbsent       MessageType = 3013
	MsgAck                 MessageType = 3020
	MsgServiceError        MessageType = 3030
	MsgServiceTimeout      MessageType = 3031

	// Event (4000s)
	MsgMetricBatch MessageType = 4000

	// Transaction (5000s)
	MsgBegin            MessageType = 5000
	MsgResourceInvolved MessageType = 5001
	MsgCommitRequest    MessageType = 5010
	MsgRollbackRequest  MessageType = 5011
	MsgPrepare          MessageType = 5020
	MsgXAReply          MessageType = 5021
	MsgCommit           MessageType = 5030
	MsgRollback         MessageType = 5031

	// Queue (6000s)
	MsgEnqueue  MessageType = 6000
	MsgDequeue  MessageType = 6001
	MsgQueued   MessageType = 6010
	MsgEmpty    MessageType = 6011
	MsgForwardSend MessageType = 6020

	// Gateway (7000s)
	MsgDomainConnect MessageType = 7000
	MsgDiscover      MessageType = 7010
	MsgDiscovered    MessageType = 7011

	// Signal (8000s)
	MsgSigTerm MessageType = 8000
	MsgSigChld MessageType = 8001
)

// Component glyphs tag log lines by the manager that emitted them.
const (
	Domain      = "◆"
	Service     = "●"
	Transaction = "▲"
	Gateway     = "◇"
	Queue       = "▢"
)

package gateway

import (
	"go.uber.org/zap"

	"github.com/casual-mw/casual/logger"
)

// ConnectionLossHandler reacts to a read/write error on a connection:
// mark it closed, synthesize service_error replies for every in-flight
// request it was carrying, and unadvertise its remote services. It does
// not reconnect; redialing with backoff is done by DialOutbound.
type ConnectionLossHandler struct {
	registry *Registry
	log      *zap.SugaredLogger

	OnInFlightLost     func(InFlight)
	OnServicesWithdrawn func(remoteID string)
}

// NewConnectionLossHandler constructs a handler bound to registry.
func NewConnectionLossHandler(registry *Registry) *ConnectionLossHandler {
	return &ConnectionLossHandler{registry: registry, log: logger.Named("gateway.loss")}
}

// Handle processes the loss of c and its tracked in-flight requests:
// it closes c, reports each in-flight request and the withdrawn remote
// services through the optional callbacks, and drops c from the registry
// if it is inbound. It returns nothing and starts no reconnection.
func (h *ConnectionLossHandler) Handle(c *Connection, inFlight []InFlight) {
	c.Close()
	h.log.Warnw("connection lost", logger.FieldConn, c.RemoteID(), logger.FieldCount, len(inFlight))

	for _, f := range inFlight {
		if h.OnInFlightLost != nil {
			h.OnInFlightLost(f)
		}
	}
	if h.OnServicesWithdrawn != nil {
		h.OnServicesWithdrawn(c.RemoteID())
	}
	if c.role == RoleInboundRegular || c.role == RoleInboundReverse {
		h.registry.RemoveInbound(c)
	}
}

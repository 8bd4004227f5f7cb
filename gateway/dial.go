package gateway

import (
	"context"
	"math/rand"
	"net"
	"time"

	"github.com/casual-mw/casual/errors"
	"github.com/casual-mw/casual/logger"
)

// DialOutbound establishes an outbound-regular connection, performing
// the domain_connect handshake, and retries with exponential backoff
// (jittered, capped at maxDelay) when configured to reconnect, until ctx
// is canceled.
func DialOutbound(ctx context.Context, address string, local DomainConnect, reconnect bool, minDelay, maxDelay time.Duration) (*Connection, DomainConnect, error) {
	if minDelay <= 0 {
		minDelay = 200 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := minDelay
	for {
		conn, err := net.Dial("tcp", address)
		if err == nil {
			peer, _, negErr := Negotiate(conn, local)
			if negErr == nil {
				return NewConnection(conn, RoleOutboundRegular), peer, nil
			}
			err = negErr
		}

		logger.Warnw("gateway: outbound dial failed", logger.FieldAddress, address, logger.FieldError, err)
		if !reconnect {
			return nil, DomainConnect{}, errors.Wrapf(err, "gateway: dial %s", address)
		}

		jitter := time.Duration(rand.Int63n(int64(delay) / 2))
		select {
		case <-time.After(delay + jitter):
		case <-ctx.Done():
			return nil, DomainConnect{}, ctx.Err()
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

package gateway

import (
	"encoding/json"
	"net"

	"github.com/Masterminds/semver/v3"

	"github.com/casual-mw/casual/errors"
)

// DomainConnect is exchanged immediately after TCP accept/connect.
type DomainConnect struct {
	DomainID          string   `json:"domain_id"`
	SupportedVersions []string `json:"supported_versions"`
}

// Negotiate exchanges DomainConnect with the peer over conn and selects
// the highest common protocol version using semantic-version comparison.
// local is sent while the peer's message is being read, so both regular
// and reverse roles use the same wire sequence and neither side has to
// wait for the other to read first.
func Negotiate(conn net.Conn, local DomainConnect) (peer DomainConnect, selected *semver.Version, err error) {
	sendErr := make(chan error, 1)
	go func() {
		sendErr <- json.NewEncoder(conn).Encode(local)
	}()

	dec := json.NewDecoder(conn)
	if err := dec.Decode(&peer); err != nil {
		return DomainConnect{}, nil, errors.Wrap(err, "gateway: receive domain_connect")
	}
	if err := <-sendErr; err != nil {
		return DomainConnect{}, nil, errors.Wrap(err, "gateway: send domain_connect")
	}

	best, err := highestCommon(local.SupportedVersions, peer.SupportedVersions)
	if err != nil {
		conn.Close()
		return peer, nil, err
	}
	return peer, best, nil
}

// highestCommon returns the highest version present (by semver
// comparison) in both lists, or an error if there is no overlap.
func highestCommon(mine, theirs []string) (*semver.Version, error) {
	theirSet := make(map[string]bool, len(theirs))
	for _, v := range theirs {
		theirSet[v] = true
	}

	var best *semver.Version
	for _, v := range mine {
		if !theirSet[v] {
			continue
		}
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if best == nil || parsed.GreaterThan(best) {
			best = parsed
		}
	}
	if best == nil {
		return nil, errors.Newf("gateway: no common protocol version between %v and %v", mine, theirs)
	}
	return best, nil
}

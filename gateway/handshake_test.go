package gateway

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiateSelectsHighestCommonVersion(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	var peerB DomainConnect
	var versionB string
	go func() {
		defer close(done)
		peer, selected, err := Negotiate(b, DomainConnect{DomainID: "b", SupportedVersions: []string{"1.0", "1.1"}})
		require.NoError(t, err)
		peerB = peer
		versionB = selected.String()
	}()

	peerA, selectedA, err := Negotiate(a, DomainConnect{DomainID: "a", SupportedVersions: []string{"1.1", "1.2"}})
	require.NoError(t, err)
	<-done

	require.Equal(t, "b", peerA.DomainID)
	require.Equal(t, "a", peerB.DomainID)
	require.Equal(t, "1.1.0", selectedA.String())
	require.Equal(t, "1.1.0", versionB)
}

func TestNegotiateFailsOnNoCommonVersion(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go Negotiate(b, DomainConnect{DomainID: "b", SupportedVersions: []string{"2.0"}})

	_, _, err := Negotiate(a, DomainConnect{DomainID: "a", SupportedVersions: []string{"1.0"}})
	require.Error(t, err)
}

package transport

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/casual-mw/casual/sym"
)

func TestLocalCodecHeaderRoundTrip(t *testing.T) {
	h := Header{
		Type:        sym.MsgServiceLookup,
		Correlation: uuid.New(),
		Execution:   uuid.New(),
		Offset:      128,
		Count:       64,
		TotalSize:   1024,
	}

	buf := LocalCodec{}.EncodeHeader(h)
	got, err := LocalCodec{}.DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestNetworkCodecHeaderRoundTrip(t *testing.T) {
	h := Header{
		Type:        sym.MsgDomainConnect,
		Correlation: uuid.New(),
		Execution:   uuid.New(),
		Offset:      0,
		Count:       0,
		TotalSize:   0,
	}

	buf := NetworkCodec{}.EncodeHeader(h)
	got, err := NetworkCodec{}.DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderShortBufferErrors(t *testing.T) {
	_, err := LocalCodec{}.DecodeHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

package rpcutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := JSONCodec{}
	require.Equal(t, CodecName, c.Name())

	in := sample{Name: "orders", Count: 3}
	data, err := c.Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	require.Equal(t, in, out)
}

package gateway

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDiscoverAccumulatesAllReplies(t *testing.T) {
	d := NewDiscovery(time.Second)
	c1 := &Connection{}
	c2 := &Connection{}

	correlation := uuid.New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		d.HandleReply(correlation, DiscoverReply{From: c1, Services: []string{"orders.create"}})
		d.HandleReply(correlation, DiscoverReply{From: c2, Services: []string{"orders.cancel"}})
	}()

	replies, err := d.Discover(correlation, []*Connection{c1, c2}, DiscoverRequest{Services: []string{"orders.create"}}, func(*Connection, uuid.UUID, DiscoverRequest) error {
		return nil
	})
	require.NoError(t, err)
	require.Len(t, replies, 2)
}

func TestDiscoverTimesOutWithPartialResults(t *testing.T) {
	d := NewDiscovery(20 * time.Millisecond)
	c1 := &Connection{}
	c2 := &Connection{}

	correlation := uuid.New()
	go func() {
		time.Sleep(5 * time.Millisecond)
		d.HandleReply(correlation, DiscoverReply{From: c1})
	}()

	replies, err := d.Discover(correlation, []*Connection{c1, c2}, DiscoverRequest{}, func(*Connection, uuid.UUID, DiscoverRequest) error {
		return nil
	})
	require.NoError(t, err)
	require.Len(t, replies, 1)
}

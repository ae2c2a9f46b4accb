package streamer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, c *Client[T]) *T {
	t.Helper()
	select {
	case v, ok := <-c.C:
		require.True(t, ok, "client channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("nothing received")
	}
	return nil
}

func TestBroadcastReachesAllClients(t *testing.T) {
	s := NewStreamer[string](4)
	go s.Run()
	a := s.NewClient(4)
	b := s.NewClient(4)

	msg := "hello"
	assert.True(t, s.Broadcast(&msg))

	assert.Equal(t, "hello", *receive(t, a))
	assert.Equal(t, "hello", *receive(t, b))
	assert.True(t, s.Stop())
}

func TestBroadcastWhenStopped(t *testing.T) {
	s := NewStreamer[int](1)
	v := 1
	assert.False(t, s.Broadcast(&v))
	assert.False(t, s.Stop())
}

func TestClosedClientStopsReceiving(t *testing.T) {
	s := NewStreamer[int](4)
	go s.Run()
	a := s.NewClient(4)
	b := s.NewClient(4)
	a.Close()

	v := 7
	s.Broadcast(&v)
	assert.Equal(t, 7, *receive(t, b))

	_, ok := <-a.C
	assert.False(t, ok)
	s.Stop()
}

func TestSlowClientDropsMessages(t *testing.T) {
	s := NewStreamer[int](4)
	go s.Run()
	slow := s.NewClient(1)
	fast := s.NewClient(4)

	for i := 0; i < 3; i++ {
		v := i
		require.True(t, s.Broadcast(&v))
		assert.Equal(t, i, *receive(t, fast))
	}

	require.True(t, s.Stop())
	assert.Equal(t, uint64(2), s.Dropped())
	assert.Equal(t, 0, *receive(t, slow))
}

func TestStopClosesClients(t *testing.T) {
	s := NewStreamer[int](1)
	go s.Run()
	c := s.NewClient(1)
	require.True(t, s.Stop())
	_, ok := <-c.C
	assert.False(t, ok)
}

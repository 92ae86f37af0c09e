package websocket

import (
	"context"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case frame := <-c.Send:
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func TestHubDeliversToSessionClients(t *testing.T) {
	hub := startHub(t)

	a1 := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 4)}
	a2 := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, SessionID: "b", Send: make(chan []byte, 4)}
	for _, c := range []*Client{a1, a2, b} {
		hub.register <- c
	}
	require.Eventually(t, func() bool { return hub.Connected("a") == 2 }, time.Second, time.Millisecond)

	hub.Send("a", []byte(`{"type":"turn"}`))

	assert.Equal(t, `{"type":"turn"}`, string(receive(t, a1)))
	assert.Equal(t, `{"type":"turn"}`, string(receive(t, a2)))
	assert.Empty(t, b.Send)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	require.Eventually(t, func() bool { return hub.Connected("a") == 0 }, time.Second, time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)

	c := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connected("a") == 1 }, time.Second, time.Millisecond)

	hub.Send("a", []byte("1"))
	hub.Send("a", []byte("2"))

	require.Eventually(t, func() bool { return hub.Connected("a") == 0 }, time.Second, time.Millisecond)
}

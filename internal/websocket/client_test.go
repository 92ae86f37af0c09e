package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type written struct {
	kind int
	data string
}

type fakeConn struct {
	mu       sync.Mutex
	writes   []written
	failData bool
	closed   bool
}

func (f *fakeConn) SetReadLimit(int64) {}
func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) ReadMessage() (int, []byte, error) { return 0, nil, errors.New("closed") }

func (f *fakeConn) WriteMessage(kind int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failData && kind == websocket.TextMessage {
		return errors.New("broken pipe")
	}
	f.writes = append(f.writes, written{kind: kind, data: string(data)})
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) snapshot() ([]written, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]written(nil), f.writes...), f.closed
}

func runWritePump(c *Client, ping <-chan time.Time) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		c.writePump(ping)
		close(done)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write pump did not return")
	}
}

func TestWritePumpSendsFramesThenCloses(t *testing.T) {
	conn := &fakeConn{}
	c := newClient(NewHub(nil, logger.NewNopLogger()), conn, "s1")

	done := runWritePump(c, nil)
	c.Send <- []byte(`{"seq":1}`)
	c.Send <- []byte(`{"seq":2}`)
	close(c.Send)
	waitDone(t, done)

	writes, closed := conn.snapshot()
	require.Len(t, writes, 3)
	assert.Equal(t, written{websocket.TextMessage, `{"seq":1}`}, writes[0])
	assert.Equal(t, written{websocket.TextMessage, `{"seq":2}`}, writes[1])
	assert.Equal(t, websocket.CloseMessage, writes[2].kind)
	assert.True(t, closed)
}

func TestWritePumpPingsOnTick(t *testing.T) {
	conn := &fakeConn{}
	c := newClient(NewHub(nil, logger.NewNopLogger()), conn, "s1")

	ping := make(chan time.Time)
	done := runWritePump(c, ping)
	ping <- time.Now()
	close(c.Send)
	waitDone(t, done)

	writes, _ := conn.snapshot()
	require.Len(t, writes, 2)
	assert.Equal(t, websocket.PingMessage, writes[0].kind)
	assert.Equal(t, websocket.CloseMessage, writes[1].kind)
}

func TestWritePumpStopsOnWriteError(t *testing.T) {
	conn := &fakeConn{failData: true}
	c := newClient(NewHub(nil, logger.NewNopLogger()), conn, "s1")

	done := runWritePump(c, nil)
	c.Send <- []byte("x")
	waitDone(t, done)

	writes, closed := conn.snapshot()
	assert.Empty(t, writes)
	assert.True(t, closed)
}

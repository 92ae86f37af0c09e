package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/ai/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu     sync.Mutex
	frames map[string][][]byte
}

func (r *recordingDelivery) Send(sessionID string, frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames == nil {
		r.frames = map[string][][]byte{}
	}
	r.frames[sessionID] = append(r.frames[sessionID], frame)
}

func (r *recordingDelivery) count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames[sessionID])
}

func TestFramesReachDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	consumer := NewConsumerService(pubSub, "session_frames", delivery, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("session_frames", pubSub, logger.NewNopLogger())
	require.NoError(t, publisher.PublishFrame(session.Event{Type: session.EventNotice, SessionID: "tab-1", Notice: "hi"}))
	require.NoError(t, publisher.PublishFrame(session.Event{Type: session.EventLoading, SessionID: "tab-1", Loading: true}))
	require.NoError(t, publisher.PublishFrame(session.Event{Type: session.EventMode, SessionID: "tab-2", Mode: "brainstorm"}))

	require.Eventually(t, func() bool {
		return delivery.count("tab-1") == 2 && delivery.count("tab-2") == 1
	}, time.Second, 5*time.Millisecond)

	delivery.mu.Lock()
	raw := delivery.frames["tab-2"][0]
	delivery.mu.Unlock()

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "mode", frame["type"])
	assert.Equal(t, "brainstorm", frame["mode"])
	assert.Equal(t, "tab-2", frame["session_id"])
	assert.EqualValues(t, 3, frame["seq"])
}

func TestConsumerDropsFramesWithoutSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	require.NoError(t, NewConsumerService(pubSub, "frames", delivery, logger.NewNopLogger()).Consume(ctx))

	publisher := NewPublisherService("frames", pubSub, logger.NewNopLogger())
	require.NoError(t, publisher.PublishFrame(session.Event{Type: session.EventNotice}))
	require.NoError(t, publisher.PublishFrame(session.Event{Type: session.EventNotice, SessionID: "tab"}))

	require.Eventually(t, func() bool { return delivery.count("tab") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, delivery.count(""))
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/ai/pipeline"
	"ai-assistant-be/pkg/ai/session"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoPipeline struct {
	name string
}

func (p echoPipeline) Name() string { return p.name }

func (p echoPipeline) Resolve(_ context.Context, in pipeline.Input) pipeline.Outcome {
	return pipeline.Outcome{Text: p.name + ": " + in.Message}
}

type recordingFrames struct {
	mu     sync.Mutex
	events []session.Event
}

func (r *recordingFrames) PublishFrame(ev session.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingFrames) types() []session.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEvents) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestAssistant(t *testing.T, requireLogin bool) (IAssistantService, *recordingFrames, *recordingEvents) {
	t.Helper()

	cfg := session.DefaultConfig()
	cfg.RevealInterval = time.Millisecond

	frames := &recordingFrames{}
	published := &recordingEvents{}
	svc := NewAssistantService(
		memory.NewSessionRepository(time.Hour),
		AssistantOptions{
			Session: cfg,
			Pipelines: session.Pipelines{
				Chat:       echoPipeline{name: "chat"},
				Brainstorm: echoPipeline{name: "brainstorm"},
			},
			RequireLogin:        requireLogin,
			SubmitRatePerMinute: 600,
			SubmitBurst:         10,
		},
		frames,
		published,
		logger.NewNopLogger(),
	)
	t.Cleanup(svc.Shutdown)
	return svc, frames, published
}

func waitForState(t *testing.T, svc IAssistantService, id, state string) *dto.SessionResponse {
	t.Helper()
	var last *dto.SessionResponse
	require.Eventually(t, func() bool {
		res, err := svc.GetSession(context.Background(), id)
		if err != nil || len(res.Turns) == 0 {
			return false
		}
		last = res
		return res.Turns[len(res.Turns)-1].ResponseState == state && !res.Loading
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func TestAssistantService_SubmitRevealsAndPublishes(t *testing.T) {
	svc, frames, published := newTestAssistant(t, false)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "normal", created.Mode)
	assert.True(t, svc.HasSession(ctx, created.Id))

	res, err := svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, string(session.SubmitAccepted), res.Status)

	snapshot := waitForState(t, svc, created.Id, "complete")
	require.Len(t, snapshot.Turns, 1)
	assert.Equal(t, "hello", snapshot.Turns[0].UserText)
	assert.Equal(t, "chat: hello", snapshot.Turns[0].ResponseText)
	assert.Equal(t, "chat", snapshot.Turns[0].Kind)

	assert.Contains(t, frames.types(), session.EventTurn)
	assert.Contains(t, frames.types(), session.EventLoading)
	require.Eventually(t, func() bool { return published.count() == 1 }, time.Second, 5*time.Millisecond)

	published.mu.Lock()
	payload, err := events.ParseTurnFinished(published.events[0])
	published.mu.Unlock()
	require.NoError(t, err)
	assert.Equal(t, created.Id, payload.SessionID)
	assert.Equal(t, "complete", payload.ResponseState)
	assert.Equal(t, "chat: hello", payload.ResponseText)
}

func TestAssistantService_BlankSubmitIgnored(t *testing.T) {
	svc, _, _ := newTestAssistant(t, false)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	res, err := svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "   "})
	require.NoError(t, err)
	assert.Equal(t, string(session.SubmitIgnored), res.Status)

	snapshot, err := svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Turns)
}

func TestAssistantService_UnknownSession(t *testing.T) {
	svc, _, _ := newTestAssistant(t, false)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.SubmitMessage(ctx, "missing", &dto.SubmitMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Stop(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.ClearSession(ctx, "missing"), ErrSessionNotFound)
	assert.False(t, svc.HasSession(ctx, "missing"))
}

func TestAssistantService_RequireLogin(t *testing.T) {
	svc, frames, _ := newTestAssistant(t, true)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	res, err := svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, string(session.SubmitAuthRequired), res.Status)
	assert.Contains(t, frames.types(), session.EventAuthRequired)

	snapshot, err := svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Turns)
}

func TestAssistantService_ToggleAndClear(t *testing.T) {
	svc, _, _ := newTestAssistant(t, false)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "hello"})
	require.NoError(t, err)
	waitForState(t, svc, created.Id, "complete")

	mode, err := svc.ToggleBrainstorm(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "brainstorm", mode.Mode)

	snapshot, err := svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Turns, "entering brainstorm clears the transcript")
	assert.Equal(t, "brainstorm", snapshot.Mode)

	_, err = svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "tea"})
	require.NoError(t, err)
	snapshot = waitForState(t, svc, created.Id, "complete")
	assert.Equal(t, "brainstorm: tea", snapshot.Turns[0].ResponseText)

	require.NoError(t, svc.ClearSession(ctx, created.Id))
	snapshot, err = svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Turns)
}

func TestAssistantService_StopIdle(t *testing.T) {
	svc, _, _ := newTestAssistant(t, false)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	res, err := svc.Stop(ctx, created.Id)
	require.NoError(t, err)
	assert.False(t, res.Stopped)
}

func TestAssistantService_SessionsBelongToTheirCreator(t *testing.T) {
	svc, _, _ := newTestAssistant(t, true)
	alice := identity.WithUser(context.Background(), identity.User{ID: "alice", IsAuthenticated: true})
	bob := identity.WithUser(context.Background(), identity.User{ID: "bob", IsAuthenticated: true})

	created, err := svc.CreateSession(alice)
	require.NoError(t, err)

	assert.True(t, svc.HasSession(alice, created.Id))
	_, err = svc.GetSession(alice, created.Id)
	require.NoError(t, err)

	for name, ctx := range map[string]context.Context{"other user": bob, "anonymous": context.Background()} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, svc.HasSession(ctx, created.Id))
			_, err := svc.GetSession(ctx, created.Id)
			assert.ErrorIs(t, err, ErrSessionNotFound)
			_, err = svc.SubmitMessage(ctx, created.Id, &dto.SubmitMessageRequest{Text: "hi"})
			assert.ErrorIs(t, err, ErrSessionNotFound)
			_, err = svc.Stop(ctx, created.Id)
			assert.ErrorIs(t, err, ErrSessionNotFound)
			assert.ErrorIs(t, svc.ClearSession(ctx, created.Id), ErrSessionNotFound)
		})
	}
}

func TestAssistantService_GuestModeSharesSessions(t *testing.T) {
	svc, _, _ := newTestAssistant(t, false)
	alice := identity.WithUser(context.Background(), identity.User{ID: "alice", IsAuthenticated: true})

	created, err := svc.CreateSession(alice)
	require.NoError(t, err)

	assert.True(t, svc.HasSession(context.Background(), created.Id))
}

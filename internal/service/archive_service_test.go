package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/transcript"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchiveRepo struct {
	created   []*entity.TurnArchive
	createErr error
	specs     []specification.Specification
	rows      []*entity.TurnArchive
}

func (r *fakeArchiveRepo) Create(_ context.Context, turn *entity.TurnArchive) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, turn)
	return nil
}

func (r *fakeArchiveRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.TurnArchive, error) {
	r.specs = specs
	return r.rows, nil
}

func (r *fakeArchiveRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (s *fakeSubscriber) Subscribe(_ context.Context, subject, durableName string, handler pktNats.EventHandler) (jetstream.ConsumeContext, error) {
	s.subject = subject
	s.durable = durableName
	s.handler = handler
	return nil, nil
}

func finishedTurn() transcript.Turn {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return transcript.Turn{
		ID:            start.UnixMilli(),
		UserText:      "what is new",
		ResponseText:  "plenty",
		ResponseState: transcript.StateComplete,
		Kind:          transcript.KindChat,
		CreatedAt:     start,
		UpdatedAt:     start.Add(1500 * time.Millisecond),
	}
}

func TestArchiveService_StoresFinishedTurns(t *testing.T) {
	repo := &fakeArchiveRepo{}
	sub := &fakeSubscriber{}
	svc := NewArchiveService(repo, sub, logger.NewNopLogger())

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, pktNats.Subject(events.TurnFinished), sub.subject)
	assert.Equal(t, archiveDurableName, sub.durable)
	require.NotNil(t, sub.handler)

	turn := finishedTurn()
	err := sub.handler(context.Background(), events.NewTurnFinished("tab-1", "user-1", "normal", turn))
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	assert.Equal(t, "tab-1", got.SessionId)
	assert.Equal(t, turn.ID, got.TurnId)
	assert.Equal(t, "user-1", got.UserId)
	assert.Equal(t, "complete", got.ResponseState)
	assert.Equal(t, "chat", got.Kind)
	assert.Equal(t, "normal", got.Mode)
	assert.Equal(t, int64(1500), got.DurationMs)
	svc.Stop()
}

func TestArchiveService_SkipsForeignEvents(t *testing.T) {
	repo := &fakeArchiveRepo{}
	sub := &fakeSubscriber{}
	svc := NewArchiveService(repo, sub, logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))

	err := sub.handler(context.Background(), events.BaseEvent{Type: "SOMETHING_ELSE"})
	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestArchiveService_RepositoryErrorIsReturned(t *testing.T) {
	repo := &fakeArchiveRepo{createErr: errors.New("db down")}
	sub := &fakeSubscriber{}
	svc := NewArchiveService(repo, sub, logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))

	err := sub.handler(context.Background(), events.NewTurnFinished("tab-1", "", "normal", finishedTurn()))
	assert.ErrorContains(t, err, "db down")
}

func TestArchiveService_ListTurns(t *testing.T) {
	turn := finishedTurn()
	repo := &fakeArchiveRepo{rows: []*entity.TurnArchive{{
		Id:            uuid.New(),
		SessionId:     "tab-1",
		TurnId:        turn.ID,
		ResponseState: "complete",
		FinishedAt:    turn.UpdatedAt,
	}}}
	svc := NewArchiveService(repo, &fakeSubscriber{}, logger.NewNopLogger())

	page, err := svc.ListTurns(context.Background(), "user-1", &dto.ArchiveQueryRequest{
		SessionId: "tab-1",
		State:     "complete",
		Kind:      "news",
		Since:     "2026-03-01T00:00:00Z",
		Page:      2,
		PageSize:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "tab-1", page.Items[0].SessionId)

	assert.Contains(t, repo.specs, specification.Specification(specification.ByUserID{UserID: "user-1"}))
	assert.Contains(t, repo.specs, specification.Specification(specification.BySessionID{SessionID: "tab-1"}))
	assert.Contains(t, repo.specs, specification.Specification(specification.ByResponseState{State: "complete"}))
	assert.Contains(t, repo.specs, specification.Filter("kind", "news"))
	assert.Contains(t, repo.specs, specification.Specification(specification.FinishedSince{Since: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}))
	assert.Contains(t, repo.specs, specification.Specification(specification.Pagination{Limit: 10, Offset: 10}))
}

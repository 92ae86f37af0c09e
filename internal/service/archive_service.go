package service

import (
	"context"
	"fmt"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/nats-io/nats.go/jetstream"
)

const archiveDurableName = "turn-archive-worker"

// EventSubscriber attaches a durable consumer to the event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) (jetstream.ConsumeContext, error)
}

type IArchiveService interface {
	Start(ctx context.Context) error
	Stop()
	ListTurns(ctx context.Context, userID string, request *dto.ArchiveQueryRequest) (*dto.ArchivePageResponse, error)
}

type archiveService struct {
	repo       contract.TurnArchiveRepository
	subscriber EventSubscriber
	consumer   jetstream.ConsumeContext
	logger     logger.ILogger
}

func NewArchiveService(repo contract.TurnArchiveRepository, sub EventSubscriber, log logger.ILogger) IArchiveService {
	return &archiveService{
		repo:       repo,
		subscriber: sub,
		logger:     log,
	}
}

// Start consumes TURN_FINISHED events and stores each turn once.
func (s *archiveService) Start(ctx context.Context) error {
	consumer, err := s.subscriber.Subscribe(ctx, pktNats.Subject(events.TurnFinished), archiveDurableName, s.handleEvent)
	if err != nil {
		s.logger.Error("ARCHIVE", "Failed to start archive subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.consumer = consumer
	s.logger.Info("ARCHIVE", "Archive service started", map[string]interface{}{"durable": archiveDurableName})
	return nil
}

func (s *archiveService) Stop() {
	if s.consumer != nil {
		s.consumer.Stop()
	}
}

func (s *archiveService) handleEvent(ctx context.Context, event events.Event) error {
	payload, err := events.ParseTurnFinished(event)
	if err != nil {
		// Not ours; ack it so it is not redelivered.
		s.logger.Warn("ARCHIVE", "Skipping unexpected event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return nil
	}

	started, finished := payload.Started(), payload.Finished()
	turn := &entity.TurnArchive{
		SessionId:     payload.SessionID,
		TurnId:        payload.TurnID,
		UserId:        payload.UserID,
		UserText:      payload.UserText,
		ResponseText:  payload.ResponseText,
		ResponseState: payload.ResponseState,
		Kind:          payload.Kind,
		Mode:          payload.Mode,
		DurationMs:    finished.Sub(started).Milliseconds(),
		StartedAt:     started,
		FinishedAt:    finished,
	}

	if err := s.repo.Create(ctx, turn); err != nil {
		return fmt.Errorf("archive turn %d of session %s: %w", payload.TurnID, payload.SessionID, err)
	}

	s.logger.Debug("ARCHIVE", "Turn archived", map[string]interface{}{
		"session_id": payload.SessionID,
		"turn_id":    payload.TurnID,
		"state":      payload.ResponseState,
	})
	return nil
}

func (s *archiveService) ListTurns(ctx context.Context, userID string, request *dto.ArchiveQueryRequest) (*dto.ArchivePageResponse, error) {
	page := request.Page
	if page <= 0 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filters := []specification.Specification{}
	if userID != "" {
		filters = append(filters, specification.ByUserID{UserID: userID})
	}
	if request.SessionId != "" {
		filters = append(filters, specification.BySessionID{SessionID: request.SessionId})
	}
	if request.State != "" {
		filters = append(filters, specification.ByResponseState{State: request.State})
	}
	if request.Kind != "" {
		filters = append(filters, specification.Filter("kind", request.Kind))
	}
	if request.Since != "" {
		since, err := time.Parse(time.RFC3339, request.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid since: %w", err)
		}
		filters = append(filters, specification.FinishedSince{Since: since})
	}

	total, err := s.repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "finished_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	turns, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ArchivedTurnResponse, 0, len(turns))
	for _, t := range turns {
		items = append(items, dto.ArchivedTurnResponse{
			Id:            t.Id.String(),
			SessionId:     t.SessionId,
			TurnId:        t.TurnId,
			UserText:      t.UserText,
			ResponseText:  t.ResponseText,
			ResponseState: t.ResponseState,
			Kind:          t.Kind,
			Mode:          t.Mode,
			DurationMs:    t.DurationMs,
			StartedAt:     t.StartedAt,
			FinishedAt:    t.FinishedAt,
		})
	}

	return &dto.ArchivePageResponse{
		Total: total,
		Page:  page,
		Items: items,
	}, nil
}

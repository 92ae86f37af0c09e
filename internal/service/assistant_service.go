package service

import (
	"context"
	"errors"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/ai/classifier"
	"ai-assistant-be/pkg/ai/session"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/identity"
	"ai-assistant-be/pkg/transcript"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var ErrSessionNotFound = errors.New("session not found")

// EventPublisher sends lifecycle events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type AssistantOptions struct {
	Session             session.Config
	Pipelines           session.Pipelines
	Classifier          *classifier.Classifier
	RequireLogin        bool
	SubmitRatePerMinute int
	SubmitBurst         int
}

type IAssistantService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SubmitMessage(ctx context.Context, sessionID string, request *dto.SubmitMessageRequest) (*dto.SubmitMessageResponse, error)
	Stop(ctx context.Context, sessionID string) (*dto.StopResponse, error)
	UploadFile(ctx context.Context, sessionID string, file *extract.File) (*dto.UploadFileResponse, error)
	ToggleBrainstorm(ctx context.Context, sessionID string) (*dto.ModeResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
	HasSession(ctx context.Context, sessionID string) bool
	Shutdown()
}

type assistantService struct {
	repo   *memory.SessionRepository
	opts   AssistantOptions
	frames IPublisherService
	events EventPublisher
	logger logger.ILogger
}

func NewAssistantService(
	repo *memory.SessionRepository,
	opts AssistantOptions,
	frames IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		repo:   repo,
		opts:   opts,
		frames: frames,
		events: eventPublisher,
		logger: log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := uuid.NewString()
	user, _ := identity.FromContext(ctx)
	userID := user.ID

	ctrl := session.NewController(s.opts.Session, session.Deps{
		ID:         id,
		Owner:      userID,
		Pipelines:  s.opts.Pipelines,
		Classifier: s.opts.Classifier,
		Identity:   s.identityProvider(),
		Limiter:    s.limiter(),
		Observer:   s.observer(userID),
		Logger:     s.logger,
	})
	s.repo.Save(ctrl)

	s.logger.Info("ASSISTANT", "Session created", map[string]interface{}{
		"session_id": id,
		"user_id":    userID,
	})

	return &dto.CreateSessionResponse{
		Id:   id,
		Mode: string(ctrl.Mode()),
	}, nil
}

func (s *assistantService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns := ctrl.Transcript()
	res := &dto.SessionResponse{
		Id:      ctrl.ID(),
		Mode:    string(ctrl.Mode()),
		Loading: ctrl.Loading(),
		Turns:   make([]dto.TurnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		res.Turns = append(res.Turns, toTurnResponse(t))
	}
	return res, nil
}

func (s *assistantService) SubmitMessage(ctx context.Context, sessionID string, request *dto.SubmitMessageRequest) (*dto.SubmitMessageResponse, error) {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	status := ctrl.Submit(ctx, request.Text)
	return &dto.SubmitMessageResponse{Status: string(status)}, nil
}

func (s *assistantService) Stop(ctx context.Context, sessionID string) (*dto.StopResponse, error) {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.StopResponse{Stopped: ctrl.Stop()}, nil
}

func (s *assistantService) UploadFile(ctx context.Context, sessionID string, file *extract.File) (*dto.UploadFileResponse, error) {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	status := ctrl.UploadFile(ctx, file)
	return &dto.UploadFileResponse{Status: string(status)}, nil
}

func (s *assistantService) ToggleBrainstorm(ctx context.Context, sessionID string) (*dto.ModeResponse, error) {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.ModeResponse{Mode: string(ctrl.ToggleBrainstorm())}, nil
}

func (s *assistantService) ClearSession(ctx context.Context, sessionID string) error {
	ctrl, err := s.find(ctx, sessionID)
	if err != nil {
		return err
	}
	ctrl.Clear()
	return nil
}

func (s *assistantService) HasSession(ctx context.Context, sessionID string) bool {
	_, err := s.find(ctx, sessionID)
	return err == nil
}

func (s *assistantService) Shutdown() {
	s.repo.CloseAll()
}

// find looks a session up for the caller on ctx. When login is required a
// session created by a signed-in user is visible to that user only; to
// anyone else it does not exist.
func (s *assistantService) find(ctx context.Context, sessionID string) (*session.Controller, error) {
	ctrl, ok := s.repo.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.opts.RequireLogin && ctrl.Owner() != "" {
		if user, _ := identity.FromContext(ctx); user.ID != ctrl.Owner() {
			return nil, ErrSessionNotFound
		}
	}
	return ctrl, nil
}

func (s *assistantService) identityProvider() identity.Provider {
	if s.opts.RequireLogin {
		return identity.ContextProvider{}
	}
	return identity.GuestProvider{}
}

func (s *assistantService) limiter() *rate.Limiter {
	if s.opts.SubmitRatePerMinute <= 0 {
		return nil
	}
	burst := s.opts.SubmitBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(s.opts.SubmitRatePerMinute)/60), burst)
}

// observer forwards every event to the frame bus and announces finished
// turns on the event bus. It runs under the session lock, so the event
// bus publish happens on its own goroutine.
func (s *assistantService) observer(userID string) session.Observer {
	var observers session.Observers
	if s.frames != nil {
		observers = append(observers, session.ObserverFunc(func(ev session.Event) {
			_ = s.frames.PublishFrame(ev)
		}))
	}
	if s.events != nil {
		observers = append(observers, session.ObserverFunc(func(ev session.Event) {
			if ev.Type != session.EventTurn || ev.Turn == nil || !ev.Turn.ResponseState.Terminal() {
				return
			}
			event := events.NewTurnFinished(ev.SessionID, userID, string(ev.Mode), *ev.Turn)
			go s.publishEvent(event)
		}))
	}
	return observers
}

func (s *assistantService) publishEvent(event events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("ASSISTANT", "Failed to publish turn event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func toTurnResponse(t transcript.Turn) dto.TurnResponse {
	return dto.TurnResponse{
		Id:            t.ID,
		UserText:      t.UserText,
		ResponseText:  t.ResponseText,
		ResponseState: string(t.ResponseState),
		Kind:          string(t.Kind),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

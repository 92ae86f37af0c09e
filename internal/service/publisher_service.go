package service

import (
	"encoding/json"
	"sync/atomic"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/ai/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const metadataSessionID = "session_id"

// SessionFrame is what a websocket client receives. Seq increases with
// every frame so clients can drop turn frames that arrive late.
type SessionFrame struct {
	Seq uint64 `json:"seq"`
	session.Event
}

type IPublisherService interface {
	PublishFrame(ev session.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	seq       atomic.Uint64
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (ps *publisherService) PublishFrame(ev session.Event) error {
	payload, err := json.Marshal(SessionFrame{
		Seq:   ps.seq.Add(1),
		Event: ev,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataSessionID, ev.SessionID)

	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		ps.logger.Error("PUBLISHER", "Failed to publish session frame", map[string]interface{}{
			"session_id": ev.SessionID,
			"type":       string(ev.Type),
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

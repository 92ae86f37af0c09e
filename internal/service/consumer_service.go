package service

import (
	"context"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// FrameDelivery pushes an encoded frame to the clients watching a session.
// Implemented by the websocket hub.
type FrameDelivery interface {
	Send(sessionID string, frame []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   FrameDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	delivery FrameDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	sessionID := msg.Metadata.Get(metadataSessionID)
	if sessionID == "" {
		cs.logger.Warn("CONSUMER", "Dropping frame without session id", map[string]interface{}{
			"message_id": msg.UUID,
		})
		msg.Ack()
		return
	}

	cs.delivery.Send(sessionID, msg.Payload)
	msg.Ack()
}

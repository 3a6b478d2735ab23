package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"gitsleuth-be/internal/dto"
	"gitsleuth-be/internal/pkg/logger"
	"gitsleuth-be/pkg/events"
	pktNats "gitsleuth-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process event bus and relays each event to
// NATS. Relay failures are logged and the message is acked anyway: events are
// advisory and must never stall the indexing pipeline behind them.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var envelope dto.EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal event envelope", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if cs.eventPublisher == nil {
		cs.logger.Debug("consumer", "NATS publisher not configured, dropping event", map[string]interface{}{
			"type": envelope.Type,
		})
		return
	}

	event := events.BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Payload,
		OccurredAt: envelope.OccurredAt,
	}

	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("consumer", "Failed to relay event to NATS", map[string]interface{}{
			"type":  envelope.Type,
			"error": err.Error(),
		})
	}
}

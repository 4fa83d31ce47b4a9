package message

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// Lifecycle events are named after their Go type. Each event type gets its
// own Redis stream.
var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func streamName(eventName string) string {
	return "ticketing." + eventName
}

type RouterDeps struct {
	Attendance  AttendanceRecorder
	Logger      watermill.LoggerAdapter
	RedisClient *redis.Client
}

type Router struct {
	*message.Router
}

func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	addMiddlewares(router, deps.Logger)

	ep, err := cqrs.NewEventProcessorWithConfig(router, newProcessorConfig(deps.Logger, deps.RedisClient))
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	h := NewHandler(deps.Attendance)

	handlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("attendance-on-ticket-issued", h.RecordTicketIssued),
		cqrs.NewEventHandler("attendance-on-ticket-confirmed", h.RecordTicketConfirmed),
		cqrs.NewEventHandler("attendance-on-ticket-canceled", h.RecordTicketCanceled),
		cqrs.NewEventHandler("attendance-on-event-deleted", h.ClearEvent),
	}

	if err := ep.AddHandlers(handlers...); err != nil {
		return nil, fmt.Errorf("adding handlers: %w", err)
	}

	return &Router{router}, nil
}

func newProcessorConfig(logger watermill.LoggerAdapter, redisClient *redis.Client) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "svc-ticketing." + params.HandlerName,
			}, logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return streamName(params.EventName), nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	}
}

package message

import (
	"ticketing/monitoring"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// Middlewares run outermost first. Recoverer sits inside the retry so a
// panicking attendance handler is retried like any other failure.
func addMiddlewares(router *message.Router, logger watermill.LoggerAdapter) {
	router.AddMiddleware(
		handlingContextMiddleware,
		handlingLogMiddleware,
		attendanceRetry(logger).Middleware,
		middleware.Recoverer,
	)
}

// attendanceRetry gives up after about six seconds of backoff. The message is
// then nacked and redelivered by the consumer group.
func attendanceRetry(logger watermill.LoggerAdapter) middleware.Retry {
	return middleware.Retry{
		MaxRetries:      10,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          logger,
	}
}

// handlingContextMiddleware carries the correlation ID of the HTTP request
// that committed the event into the handler, along with a logger scoped to
// the event.
func handlingContextMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := middleware.MessageCorrelationID(msg)
		if correlationID == "" {
			correlationID = "gen_" + shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(msg.Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"event_name":     marshaler.NameFromMessage(msg),
			"handler":        message.HandlerNameFromCtx(msg.Context()),
			"message_uuid":   msg.UUID,
		}))
		msg.SetContext(ctx)

		return next(msg)
	}
}

func handlingLogMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		start := time.Now()

		msgs, err := next(msg)

		monitoring.RecordMessageHandled(message.HandlerNameFromCtx(msg.Context()), err)
		logger := log.FromContext(msg.Context()).WithField("duration", time.Since(start))
		if err != nil {
			logger.WithError(err).Error("Event handling failed")
			return msgs, err
		}

		logger.Debug("Event handled")
		return msgs, nil
	}
}

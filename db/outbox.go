package db

import (
	"context"
	"errors"
	"ticketing/message"

	"github.com/ThreeDotsLabs/watermill"
)

// OutboxPublisher stores events in the outbox table of the transaction
// carried by ctx, so they are forwarded only if that transaction commits.
type OutboxPublisher struct {
	logger watermill.LoggerAdapter
}

func NewOutboxPublisher(logger watermill.LoggerAdapter) OutboxPublisher {
	return OutboxPublisher{
		logger: logger,
	}
}

func (p OutboxPublisher) Publish(ctx context.Context, event any) error {
	tx, ok := TxFromContext(ctx)
	if !ok {
		return errors.New("publishing event outside of a transaction")
	}

	return message.PublishInTx(ctx, event, tx.Tx, p.logger)
}

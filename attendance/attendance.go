// Package attendance keeps per-event ticket counts in Redis.
//
// Each event owns a sorted set whose members are ticket ids scored by the
// rank of their status. Ticket statuses only ever move forward (pending,
// confirmed, canceled), so writes use ZADD GT and redelivered or reordered
// lifecycle events cannot move a ticket backwards.
package attendance

import (
	"context"
	"fmt"
	"strconv"
	"ticketing/entity"

	"github.com/redis/go-redis/v9"
)

var ranks = map[entity.TicketStatus]float64{
	entity.StatusPending:   1,
	entity.StatusConfirmed: 2,
	entity.StatusCanceled:  3,
}

type Summary struct {
	Pending   int64
	Confirmed int64
	Canceled  int64
}

func (s Summary) Total() int64 {
	return s.Pending + s.Confirmed + s.Canceled
}

type Store struct {
	rdb redis.Cmdable
}

func NewStore(rdb redis.Cmdable) Store {
	return Store{
		rdb: rdb,
	}
}

func key(eventID string) string {
	return "attendance:" + eventID
}

func (s Store) Record(ctx context.Context, eventID, ticketID string, status entity.TicketStatus) error {
	rank, ok := ranks[status]
	if !ok {
		return fmt.Errorf("unknown ticket status %q", status)
	}

	err := s.rdb.ZAddGT(ctx, key(eventID), redis.Z{Score: rank, Member: ticketID}).Err()
	if err != nil {
		return fmt.Errorf("adding ticket %s to %s: %w", ticketID, key(eventID), err)
	}

	return nil
}

func (s Store) Clear(ctx context.Context, eventID string) error {
	if err := s.rdb.Del(ctx, key(eventID)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key(eventID), err)
	}

	return nil
}

func (s Store) Summary(ctx context.Context, eventID string) (Summary, error) {
	var summary Summary
	fields := []struct {
		status entity.TicketStatus
		count  *int64
	}{
		{entity.StatusPending, &summary.Pending},
		{entity.StatusConfirmed, &summary.Confirmed},
		{entity.StatusCanceled, &summary.Canceled},
	}

	for _, f := range fields {
		score := strconv.FormatFloat(ranks[f.status], 'f', -1, 64)
		n, err := s.rdb.ZCount(ctx, key(eventID), score, score).Result()
		if err != nil {
			return Summary{}, fmt.Errorf("counting %s tickets: %w", f.status, err)
		}
		*f.count = n
	}

	return summary, nil
}

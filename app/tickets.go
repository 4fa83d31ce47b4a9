package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"ticketing/entity"
	"ticketing/event"
	"ticketing/monitoring"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TicketService struct {
	tx        Transactor
	users     UserRepo
	events    EventRepo
	tickets   TicketRepo
	publisher Publisher
	now       func() time.Time
}

func NewTicketService(tx Transactor, users UserRepo, events EventRepo, tickets TicketRepo, publisher Publisher) *TicketService {
	return &TicketService{
		tx:        tx,
		users:     users,
		events:    events,
		tickets:   tickets,
		publisher: publisher,
		now:       time.Now,
	}
}

// Issue reserves a ticket for the actor. Free events are confirmed
// straight away, paid events wait for Confirm.
func (s *TicketService) Issue(ctx context.Context, actorID, eventID string) (entity.Ticket, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return entity.Ticket{}, validationError("Event ID required")
	}

	var issued entity.Ticket
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		e, err := s.events.Get(ctx, eventID)
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundError("Event not found")
		}
		if err != nil {
			return fmt.Errorf("getting event: %w", err)
		}

		exists, err := s.tickets.Exists(ctx, actorID, e.ID)
		if err != nil {
			return fmt.Errorf("checking existing ticket: %w", err)
		}
		if exists {
			return conflictError("Ticket already exists")
		}

		now := s.now().UTC()
		t := entity.Ticket{
			ID:            uuid.NewString(),
			UserID:        actorID,
			EventID:       e.ID,
			Status:        entity.StatusPending,
			PaymentStatus: entity.PaymentUnpaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if e.Free() {
			t.Status = entity.StatusConfirmed
			t.PaymentStatus = entity.PaymentFree
		}

		if err := s.tickets.Add(ctx, t); err != nil {
			switch {
			case errors.Is(err, entity.ErrConflict):
				return conflictError("Ticket already exists")
			case errors.Is(err, entity.ErrNotFound):
				return notFoundError("User not found")
			}
			return fmt.Errorf("adding ticket: %w", err)
		}

		if err := s.publisher.Publish(ctx, event.NewTicketIssued(t, e.Price.StringFixed(2))); err != nil {
			return fmt.Errorf("publishing ticket issued: %w", err)
		}

		issued, err = s.tickets.Get(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("getting issued ticket: %w", err)
		}

		return nil
	})
	if err != nil {
		return entity.Ticket{}, err
	}

	monitoring.RecordTicketTransition("issued", string(issued.PaymentStatus))
	ticketLogger(ctx, issued).Info("Ticket issued")

	return issued, nil
}

// Confirm marks the ticket as paid. Payment is not verified.
func (s *TicketService) Confirm(ctx context.Context, actorID, ticketID string) (entity.Ticket, error) {
	var confirmed entity.Ticket
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		t, err := s.getTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.UserID != actorID {
			return authorizationError("Not authorized")
		}
		if t.Status == entity.StatusCanceled {
			return validationError("Canceled tickets cannot be confirmed")
		}

		t.Status = entity.StatusConfirmed
		t.PaymentStatus = entity.PaymentPaid
		if err := s.tickets.UpdateStatus(ctx, t.ID, t.Status, t.PaymentStatus, s.now().UTC()); err != nil {
			return fmt.Errorf("updating ticket: %w", err)
		}

		if err := s.publisher.Publish(ctx, event.NewTicketConfirmed(t)); err != nil {
			return fmt.Errorf("publishing ticket confirmed: %w", err)
		}

		confirmed, err = s.tickets.Get(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("getting confirmed ticket: %w", err)
		}

		return nil
	})
	if err != nil {
		return entity.Ticket{}, err
	}

	monitoring.RecordTicketTransition("confirmed", string(confirmed.PaymentStatus))
	ticketLogger(ctx, confirmed).Info("Ticket confirmed")

	return confirmed, nil
}

// Cancel may be called by the ticket owner or by the event's creator. A
// paid ticket is marked refunded; other payment states are kept.
func (s *TicketService) Cancel(ctx context.Context, actorID, ticketID string) (entity.Ticket, error) {
	var canceled entity.Ticket
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		t, err := s.getTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		if t.UserID != actorID && t.Event.CreatorID != actorID {
			return authorizationError("Not authorized")
		}

		t.Status = entity.StatusCanceled
		if t.PaymentStatus == entity.PaymentPaid {
			t.PaymentStatus = entity.PaymentRefunded
		}
		if err := s.tickets.UpdateStatus(ctx, t.ID, t.Status, t.PaymentStatus, s.now().UTC()); err != nil {
			return fmt.Errorf("updating ticket: %w", err)
		}

		if err := s.publisher.Publish(ctx, event.NewTicketCanceled(t, actorID)); err != nil {
			return fmt.Errorf("publishing ticket canceled: %w", err)
		}

		canceled, err = s.tickets.Get(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("getting canceled ticket: %w", err)
		}

		return nil
	})
	if err != nil {
		return entity.Ticket{}, err
	}

	monitoring.RecordTicketTransition("canceled", string(canceled.PaymentStatus))
	ticketLogger(ctx, canceled).WithField("canceled_by", actorID).Info("Ticket canceled")

	return canceled, nil
}

func (s *TicketService) ListMine(ctx context.Context, actorID string) ([]entity.Ticket, error) {
	_, err := s.users.Get(ctx, actorID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFoundError("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	tickets, err := s.tickets.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	return tickets, nil
}

func (s *TicketService) getTicket(ctx context.Context, id string) (entity.Ticket, error) {
	t, err := s.tickets.Get(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Ticket{}, notFoundError("Ticket not found")
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("getting ticket: %w", err)
	}

	return t, nil
}

func ticketLogger(ctx context.Context, t entity.Ticket) *logrus.Entry {
	return log.FromContext(ctx).WithFields(logrus.Fields{
		"ticket_id":      t.ID,
		"event_id":       t.EventID,
		"user_id":        t.UserID,
		"status":         t.Status,
		"payment_status": t.PaymentStatus,
	})
}

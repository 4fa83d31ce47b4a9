package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"ticketing/attendance"
	"ticketing/entity"
	"ticketing/event"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxEventFieldLength = 200

// maxPrice is the largest value a NUMERIC(10, 2) column holds.
var maxPrice = decimal.RequireFromString("99999999.99")

type CreateEventInput struct {
	Title       string
	Description *string
	Date        string
	Location    string
	Price       *decimal.Decimal
}

// UpdateEventInput carries the fields to change. Nil fields are left as
// they are.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
	Price       *decimal.Decimal
}

type EventService struct {
	tx         Transactor
	events     EventRepo
	publisher  Publisher
	attendance AttendanceReader
	now        func() time.Time
}

// NewEventService builds the service. attendance may be nil, in which case
// Attendance reports an internal error.
func NewEventService(tx Transactor, events EventRepo, publisher Publisher, attendance AttendanceReader) *EventService {
	return &EventService{
		tx:         tx,
		events:     events,
		publisher:  publisher,
		attendance: attendance,
		now:        time.Now,
	}
}

func (s *EventService) List(ctx context.Context) ([]entity.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (entity.Event, error) {
	e, err := s.events.Get(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.Event{}, notFoundError("Event not found")
	}
	if err != nil {
		return entity.Event{}, fmt.Errorf("getting event: %w", err)
	}

	return e, nil
}

func (s *EventService) Create(ctx context.Context, actorID string, in CreateEventInput) (entity.Event, error) {
	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	for _, f := range []struct{ name, value string }{
		{"title", title},
		{"date", strings.TrimSpace(in.Date)},
		{"location", location},
	} {
		if f.value == "" {
			return entity.Event{}, validationError(f.name + " required")
		}
	}
	if err := checkLength("title", title); err != nil {
		return entity.Event{}, err
	}
	if err := checkLength("location", location); err != nil {
		return entity.Event{}, err
	}

	date, err := ParseDate(in.Date)
	if err != nil {
		return entity.Event{}, validationError("Invalid date format")
	}

	price := decimal.Zero
	if in.Price != nil {
		if price, err = checkPrice(*in.Price); err != nil {
			return entity.Event{}, err
		}
	}

	e := entity.Event{
		ID:        uuid.NewString(),
		Title:     title,
		Date:      date,
		Location:  location,
		Price:     price,
		CreatorID: actorID,
		CreatedAt: s.now().UTC(),
	}
	if in.Description != nil {
		e.Description = *in.Description
	}

	var created entity.Event
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.events.Add(ctx, e); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return notFoundError("User not found")
			}
			return fmt.Errorf("adding event: %w", err)
		}

		got, err := s.events.Get(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("getting created event: %w", err)
		}

		created = got
		return nil
	})
	if err != nil {
		return entity.Event{}, err
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":   created.ID,
		"creator_id": actorID,
	}).Info("Event created")

	return created, nil
}

func (s *EventService) Update(ctx context.Context, actorID, id string, in UpdateEventInput) (entity.Event, error) {
	var updated entity.Event
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		e, err := s.ownedEvent(ctx, actorID, id)
		if err != nil {
			return err
		}

		if err := applyUpdate(&e, in); err != nil {
			return err
		}

		if err := s.events.Update(ctx, e); err != nil {
			return fmt.Errorf("updating event: %w", err)
		}

		updated, err = s.events.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("getting updated event: %w", err)
		}

		return nil
	})
	if err != nil {
		return entity.Event{}, err
	}

	return updated, nil
}

func applyUpdate(e *entity.Event, in UpdateEventInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return validationError("title required")
		}
		if err := checkLength("title", title); err != nil {
			return err
		}
		e.Title = title
	}

	if in.Description != nil {
		e.Description = *in.Description
	}

	if in.Date != nil {
		date, err := ParseDate(*in.Date)
		if err != nil {
			return validationError("Invalid date format")
		}
		e.Date = date
	}

	if in.Location != nil {
		location := strings.TrimSpace(*in.Location)
		if location == "" {
			return validationError("location required")
		}
		if err := checkLength("location", location); err != nil {
			return err
		}
		e.Location = location
	}

	if in.Price != nil {
		price, err := checkPrice(*in.Price)
		if err != nil {
			return err
		}
		e.Price = price
	}

	return nil
}

// Delete removes the event together with its tickets.
func (s *EventService) Delete(ctx context.Context, actorID, id string) error {
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		e, err := s.ownedEvent(ctx, actorID, id)
		if err != nil {
			return err
		}

		if err := s.events.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("deleting event: %w", err)
		}

		if err := s.publisher.Publish(ctx, event.NewEventDeleted(e.ID, actorID)); err != nil {
			return fmt.Errorf("publishing event deleted: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithField("event_id", id).Info("Event deleted")

	return nil
}

// Attendance returns ticket counts for the event. Only its creator may
// read them.
func (s *EventService) Attendance(ctx context.Context, actorID, id string) (attendance.Summary, error) {
	if s.attendance == nil {
		return attendance.Summary{}, errors.New("attendance tracking is not enabled")
	}

	e, err := s.ownedEvent(ctx, actorID, id)
	if err != nil {
		return attendance.Summary{}, err
	}

	summary, err := s.attendance.Summary(ctx, e.ID)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("getting attendance: %w", err)
	}

	return summary, nil
}

func (s *EventService) ownedEvent(ctx context.Context, actorID, id string) (entity.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return entity.Event{}, err
	}
	if e.CreatorID != actorID {
		return entity.Event{}, authorizationError("Not authorized")
	}

	return e, nil
}

func checkPrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Decimal{}, validationError("Price cannot be negative")
	}

	price = price.Round(2)
	if price.GreaterThan(maxPrice) {
		return decimal.Decimal{}, validationError("Price is too large")
	}

	return price, nil
}

func checkLength(field, value string) error {
	if len(value) > maxEventFieldLength {
		return validationError(fmt.Sprintf("%s must be at most %d characters", field, maxEventFieldLength))
	}
	return nil
}

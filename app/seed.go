package app

import (
	"context"
	"fmt"
	"ticketing/entity"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type demoAccount struct {
	username string
	email    string
	password string
	event    CreateEventInput
}

var demoAccounts = []demoAccount{
	{
		username: "Alice",
		email:    "alice@example.com",
		password: "password1",
		event: CreateEventInput{
			Title:       "Tech Conference",
			Description: ptr("Annual tech meetup"),
			Date:        "2025-09-01",
			Location:    "Nairobi",
			Price:       ptr(decimal.NewFromInt(500)),
		},
	},
	{
		username: "Bob",
		email:    "bob@example.com",
		password: "password2",
		event: CreateEventInput{
			Title:       "Music Festival",
			Description: ptr("Outdoor live music"),
			Date:        "2025-10-10",
			Location:    "Mombasa",
			Price:       ptr(decimal.NewFromInt(1000)),
		},
	},
}

// SeedDemoData signs up two demo accounts and creates one event for each.
// Accounts and events left over from an earlier run are reused, so it can
// run on every startup.
func SeedDemoData(ctx context.Context, accounts *AuthService, events *EventService) error {
	existing, err := events.List(ctx)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	for _, a := range demoAccounts {
		session, err := accounts.Signup(ctx, a.username, a.email, a.password)
		if KindOf(err) == KindConflict {
			session, err = accounts.Login(ctx, a.email, a.password)
		}
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", a.email, err)
		}

		if hasEvent(existing, session.User.ID, a.event.Title) {
			continue
		}

		e, err := events.Create(ctx, session.User.ID, a.event)
		if err != nil {
			return fmt.Errorf("seeding event %q: %w", a.event.Title, err)
		}

		log.FromContext(ctx).WithFields(logrus.Fields{
			"event_id": e.ID,
			"user_id":  session.User.ID,
		}).Info("Demo event seeded")
	}

	return nil
}

func hasEvent(events []entity.Event, creatorID, title string) bool {
	for _, e := range events {
		if e.CreatorID == creatorID && e.Title == title {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}

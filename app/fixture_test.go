package app

import (
	"context"
	"errors"
	"testing"
	"ticketing/attendance"
	"ticketing/auth"
	"ticketing/entity"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store   *memStore
	tokens  auth.Tokens
	auth    *AuthService
	events  *EventService
	tickets *TicketService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	tokens := auth.NewTokens("test-secret", time.Hour)

	return &fixture{
		store:   store,
		tokens:  tokens,
		auth:    NewAuthService(store, memUsers{store}, auth.NewPasswords(bcrypt.MinCost), tokens),
		events:  NewEventService(store, memEvents{store}, store, nil),
		tickets: NewTicketService(store, memUsers{store}, memEvents{store}, memTickets{store}, store),
	}
}

func (f *fixture) signup(t *testing.T, name string) entity.User {
	t.Helper()

	session, err := f.auth.Signup(context.Background(), name, name+"@example.com", "password")
	require.NoError(t, err)

	return session.User
}

func (f *fixture) createEvent(t *testing.T, creatorID, price string) entity.Event {
	t.Helper()

	p := decimal.RequireFromString(price)
	e, err := f.events.Create(context.Background(), creatorID, CreateEventInput{
		Title:    "Concert",
		Date:     "2030-06-01T19:00:00Z",
		Location: "Hall",
		Price:    &p,
	})
	require.NoError(t, err)

	return e
}

func assertKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()

	require.Error(t, err)
	var appErr *Error
	require.True(t, errors.As(err, &appErr), "expected *app.Error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, any) error {
	return errors.New("outbox unavailable")
}

type stubAttendance struct {
	summary attendance.Summary
}

func (s stubAttendance) Summary(context.Context, string) (attendance.Summary, error) {
	return s.summary, nil
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

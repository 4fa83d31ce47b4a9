package http

import (
	"context"
	"ticketing/app"
	"ticketing/attendance"
	"ticketing/entity"

	"github.com/stretchr/testify/mock"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Signup(ctx context.Context, username, email, password string) (app.Session, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(app.Session), args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (app.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(app.Session), args.Error(1)
}

func (m *authServiceMock) UpdateProfile(ctx context.Context, userID, username string) (entity.User, error) {
	args := m.Called(ctx, userID, username)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *authServiceMock) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *authServiceMock) VerifyToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type eventServiceMock struct {
	mock.Mock
}

func (m *eventServiceMock) List(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *eventServiceMock) Get(ctx context.Context, id string) (entity.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Event), args.Error(1)
}

func (m *eventServiceMock) Create(ctx context.Context, actorID string, in app.CreateEventInput) (entity.Event, error) {
	args := m.Called(ctx, actorID, in)
	return args.Get(0).(entity.Event), args.Error(1)
}

func (m *eventServiceMock) Update(ctx context.Context, actorID, id string, in app.UpdateEventInput) (entity.Event, error) {
	args := m.Called(ctx, actorID, id, in)
	return args.Get(0).(entity.Event), args.Error(1)
}

func (m *eventServiceMock) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *eventServiceMock) Attendance(ctx context.Context, actorID, id string) (attendance.Summary, error) {
	args := m.Called(ctx, actorID, id)
	return args.Get(0).(attendance.Summary), args.Error(1)
}

type ticketServiceMock struct {
	mock.Mock
}

func (m *ticketServiceMock) Issue(ctx context.Context, actorID, eventID string) (entity.Ticket, error) {
	args := m.Called(ctx, actorID, eventID)
	return args.Get(0).(entity.Ticket), args.Error(1)
}

func (m *ticketServiceMock) Confirm(ctx context.Context, actorID, ticketID string) (entity.Ticket, error) {
	args := m.Called(ctx, actorID, ticketID)
	return args.Get(0).(entity.Ticket), args.Error(1)
}

func (m *ticketServiceMock) Cancel(ctx context.Context, actorID, ticketID string) (entity.Ticket, error) {
	args := m.Called(ctx, actorID, ticketID)
	return args.Get(0).(entity.Ticket), args.Error(1)
}

func (m *ticketServiceMock) ListMine(ctx context.Context, actorID string) ([]entity.Ticket, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).([]entity.Ticket), args.Error(1)
}

package http

import (
	"context"
	"ticketing/app"
	"ticketing/attendance"
	"ticketing/entity"
)

type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (app.Session, error)
	Login(ctx context.Context, email, password string) (app.Session, error)
	UpdateProfile(ctx context.Context, userID, username string) (entity.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	VerifyToken(token string) (string, error)
}

type EventService interface {
	List(ctx context.Context) ([]entity.Event, error)
	Get(ctx context.Context, id string) (entity.Event, error)
	Create(ctx context.Context, actorID string, in app.CreateEventInput) (entity.Event, error)
	Update(ctx context.Context, actorID, id string, in app.UpdateEventInput) (entity.Event, error)
	Delete(ctx context.Context, actorID, id string) error
	Attendance(ctx context.Context, actorID, id string) (attendance.Summary, error)
}

type TicketService interface {
	Issue(ctx context.Context, actorID, eventID string) (entity.Ticket, error)
	Confirm(ctx context.Context, actorID, ticketID string) (entity.Ticket, error)
	Cancel(ctx context.Context, actorID, ticketID string) (entity.Ticket, error)
	ListMine(ctx context.Context, actorID string) ([]entity.Ticket, error)
}

type handler struct {
	auth    AuthService
	events  EventService
	tickets TicketService
}

type messageResponse struct {
	Message string `json:"message"`
}

type landingResponse struct {
	Message   string              `json:"message"`
	Endpoints map[string][]string `json:"endpoints"`
}

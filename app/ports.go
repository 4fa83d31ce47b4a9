package app

import (
	"context"
	"ticketing/attendance"
	"ticketing/entity"
	"time"
)

// Transactor runs fn as one unit of work: everything fn writes through
// repositories using the ctx it receives is committed together, or rolled
// back when fn returns an error.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepo interface {
	Add(ctx context.Context, user entity.User) error
	Get(ctx context.Context, id string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	GetByUsername(ctx context.Context, username string) (entity.User, error)
	UpdateUsername(ctx context.Context, id, username string) error
	Delete(ctx context.Context, id string) error
}

type EventRepo interface {
	Add(ctx context.Context, e entity.Event) error
	Get(ctx context.Context, id string) (entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, e entity.Event) error
	Delete(ctx context.Context, id string) error
}

type TicketRepo interface {
	Add(ctx context.Context, ticket entity.Ticket) error
	Get(ctx context.Context, id string) (entity.Ticket, error)
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status entity.TicketStatus, paymentStatus entity.PaymentStatus, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]entity.Ticket, error)
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

type AttendanceReader interface {
	Summary(ctx context.Context, eventID string) (attendance.Summary, error)
}

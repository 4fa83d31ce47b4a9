package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	StatusPending   TicketStatus = "pending"
	StatusConfirmed TicketStatus = "confirmed"
	StatusCanceled  TicketStatus = "canceled"
)

type PaymentStatus string

const (
	PaymentFree     PaymentStatus = "free"
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

type UserSummary struct {
	ID       string
	Username string
}

type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Price       decimal.Decimal
	CreatorID   string
	CreatedAt   time.Time

	// Creator is filled in by reads.
	Creator UserSummary
}

func (e Event) Free() bool {
	return e.Price.IsZero()
}

func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:        e.ID,
		Title:     e.Title,
		Date:      e.Date,
		Location:  e.Location,
		Price:     e.Price,
		CreatorID: e.CreatorID,
	}
}

type EventSummary struct {
	ID        string
	Title     string
	Date      time.Time
	Location  string
	Price     decimal.Decimal
	CreatorID string
}

type Ticket struct {
	ID            string
	UserID        string
	EventID       string
	Status        TicketStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// User and Event are filled in by reads.
	User  UserSummary
	Event EventSummary
}

package event

import (
	"ticketing/entity"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func newHeader() header {
	return header{
		ID:          watermill.NewUUID(),
		PublishedAt: time.Now().UTC(),
	}
}

type TicketIssued struct {
	Header        header `json:"header"`
	TicketID      string `json:"ticket_id"`
	EventID       string `json:"event_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Price         string `json:"price"`
}

func NewTicketIssued(ticket entity.Ticket, price string) TicketIssued {
	return TicketIssued{
		Header:        newHeader(),
		TicketID:      ticket.ID,
		EventID:       ticket.EventID,
		UserID:        ticket.UserID,
		Status:        string(ticket.Status),
		PaymentStatus: string(ticket.PaymentStatus),
		Price:         price,
	}
}

type TicketConfirmed struct {
	Header        header `json:"header"`
	TicketID      string `json:"ticket_id"`
	EventID       string `json:"event_id"`
	UserID        string `json:"user_id"`
	PaymentStatus string `json:"payment_status"`
}

func NewTicketConfirmed(ticket entity.Ticket) TicketConfirmed {
	return TicketConfirmed{
		Header:        newHeader(),
		TicketID:      ticket.ID,
		EventID:       ticket.EventID,
		UserID:        ticket.UserID,
		PaymentStatus: string(ticket.PaymentStatus),
	}
}

type TicketCanceled struct {
	Header        header `json:"header"`
	TicketID      string `json:"ticket_id"`
	EventID       string `json:"event_id"`
	UserID        string `json:"user_id"`
	CanceledBy    string `json:"canceled_by"`
	PaymentStatus string `json:"payment_status"`
}

func NewTicketCanceled(ticket entity.Ticket, canceledBy string) TicketCanceled {
	return TicketCanceled{
		Header:        newHeader(),
		TicketID:      ticket.ID,
		EventID:       ticket.EventID,
		UserID:        ticket.UserID,
		CanceledBy:    canceledBy,
		PaymentStatus: string(ticket.PaymentStatus),
	}
}

type EventDeleted struct {
	Header    header `json:"header"`
	EventID   string `json:"event_id"`
	DeletedBy string `json:"deleted_by"`
}

func NewEventDeleted(eventID, deletedBy string) EventDeleted {
	return EventDeleted{
		Header:    newHeader(),
		EventID:   eventID,
		DeletedBy: deletedBy,
	}
}

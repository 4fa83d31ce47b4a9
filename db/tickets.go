package db

import (
	"context"
	"fmt"
	"ticketing/entity"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateTicketsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id),
		event_id UUID NOT NULL REFERENCES events (id),
		status VARCHAR(20) NOT NULL
			CHECK (status IN ('pending', 'confirmed', 'canceled')),
		payment_status VARCHAR(20) NOT NULL
			CHECK (payment_status IN ('free', 'unpaid', 'paid', 'refunded')),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
		CONSTRAINT unique_user_event UNIQUE (user_id, event_id)
	);`)
	return err
}

const selectTickets = `SELECT t.id, t.user_id, t.event_id, t.status, t.payment_status,
		t.created_at, t.updated_at, u.username,
		e.title, e.event_date, e.location, e.price, e.creator_id
	FROM tickets t
	JOIN users u ON u.id = t.user_id
	JOIN events e ON e.id = t.event_id`

type TicketRepo struct {
	db *sqlx.DB
}

func NewTicketRepo(db *sqlx.DB) TicketRepo {
	return TicketRepo{
		db: db,
	}
}

// Add fails with entity.ErrConflict when the user already holds a ticket
// for the event.
func (r TicketRepo) Add(ctx context.Context, ticket entity.Ticket) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO tickets
		(id, user_id, event_id, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		ticket.ID, ticket.UserID, ticket.EventID, ticket.Status, ticket.PaymentStatus,
		ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting ticket: %w", translateError(err))
	}

	return nil
}

func (r TicketRepo) Get(ctx context.Context, id string) (entity.Ticket, error) {
	if !validID(id) {
		return entity.Ticket{}, entity.ErrNotFound
	}

	row := conn(ctx, r.db).QueryRowxContext(ctx, selectTickets+" WHERE t.id = $1", id)
	t, err := scanTicket(row)
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("getting ticket: %w", translateError(err))
	}

	return t, nil
}

func (r TicketRepo) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM tickets WHERE user_id = $1 AND event_id = $2)",
		userID, eventID)
	if err != nil {
		return false, fmt.Errorf("checking ticket: %w", err)
	}

	return exists, nil
}

func (r TicketRepo) UpdateStatus(
	ctx context.Context,
	id string,
	status entity.TicketStatus,
	paymentStatus entity.PaymentStatus,
	updatedAt time.Time,
) error {
	if !validID(id) {
		return entity.ErrNotFound
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE tickets
		SET status = $1, payment_status = $2, updated_at = $3
		WHERE id = $4`,
		status, paymentStatus, updatedAt, id)
	if err != nil {
		return fmt.Errorf("updating ticket: %w", err)
	}

	return expectOneRow(res)
}

func (r TicketRepo) ListByUser(ctx context.Context, userID string) ([]entity.Ticket, error) {
	tickets := []entity.Ticket{}
	if !validID(userID) {
		return tickets, nil
	}

	rows, err := conn(ctx, r.db).QueryxContext(ctx,
		selectTickets+" WHERE t.user_id = $1 ORDER BY t.created_at, t.id", userID)
	if err != nil {
		return nil, fmt.Errorf("querying db: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return tickets, nil
}

func scanTicket(s scanner) (entity.Ticket, error) {
	var t entity.Ticket
	err := s.Scan(&t.ID, &t.UserID, &t.EventID, &t.Status, &t.PaymentStatus,
		&t.CreatedAt, &t.UpdatedAt, &t.User.Username,
		&t.Event.Title, &t.Event.Date, &t.Event.Location, &t.Event.Price, &t.Event.CreatorID)
	if err != nil {
		return entity.Ticket{}, err
	}

	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	t.User.ID = t.UserID
	t.Event.ID = t.EventID
	t.Event.Date = t.Event.Date.UTC()

	return t, nil
}

package db

import (
	"context"
	"fmt"
	"ticketing/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateEventsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date TIMESTAMP WITH TIME ZONE NOT NULL,
		location VARCHAR(200) NOT NULL,
		price NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		creator_id UUID NOT NULL REFERENCES users (id),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);`)
	return err
}

const selectEvents = `SELECT e.id, e.title, e.description, e.event_date, e.location,
		e.price, e.creator_id, e.created_at, u.username
	FROM events e
	JOIN users u ON u.id = e.creator_id`

type EventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) EventRepo {
	return EventRepo{
		db: db,
	}
}

func (r EventRepo) Add(ctx context.Context, e entity.Event) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO events
		(id, title, description, event_date, location, price, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		e.ID, e.Title, e.Description, e.Date, e.Location, e.Price, e.CreatorID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", translateError(err))
	}

	return nil
}

func (r EventRepo) Get(ctx context.Context, id string) (entity.Event, error) {
	if !validID(id) {
		return entity.Event{}, entity.ErrNotFound
	}

	row := conn(ctx, r.db).QueryRowxContext(ctx, selectEvents+" WHERE e.id = $1", id)
	e, err := scanEvent(row)
	if err != nil {
		return entity.Event{}, fmt.Errorf("getting event: %w", translateError(err))
	}

	return e, nil
}

func (r EventRepo) List(ctx context.Context) ([]entity.Event, error) {
	rows, err := conn(ctx, r.db).QueryxContext(ctx, selectEvents+" ORDER BY e.created_at, e.id")
	if err != nil {
		return nil, fmt.Errorf("querying db: %w", err)
	}
	defer rows.Close()

	events := []entity.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return events, nil
}

// Update writes every mutable column of e.
func (r EventRepo) Update(ctx context.Context, e entity.Event) error {
	if !validID(e.ID) {
		return entity.ErrNotFound
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE events
		SET title = $1, description = $2, event_date = $3, location = $4, price = $5
		WHERE id = $6`,
		e.Title, e.Description, e.Date, e.Location, e.Price, e.ID)
	if err != nil {
		return fmt.Errorf("updating event: %w", translateError(err))
	}

	return expectOneRow(res)
}

// Delete removes the event and every ticket issued for it.
func (r EventRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return entity.ErrNotFound
	}

	return NewTransactor(r.db).Transact(ctx, func(ctx context.Context) error {
		c := conn(ctx, r.db)

		if _, err := c.ExecContext(ctx, "DELETE FROM tickets WHERE event_id = $1", id); err != nil {
			return fmt.Errorf("deleting event tickets: %w", err)
		}

		res, err := c.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("executing delete query: %w", err)
		}

		return expectOneRow(res)
	})
}

func scanEvent(s scanner) (entity.Event, error) {
	var e entity.Event
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.Price, &e.CreatorID, &e.CreatedAt, &e.Creator.Username)
	if err != nil {
		return entity.Event{}, err
	}

	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.Creator.ID = e.CreatorID

	return e, nil
}

package db

import (
	"context"
	"fmt"
	"ticketing/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func CreateUsersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);`)
	return err
}

const selectUsers = `SELECT id, username, email, password_hash, created_at FROM users`

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepo {
	return UserRepo{
		db: db,
	}
}

func (r UserRepo) Add(ctx context.Context, user entity.User) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO users
		(id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting user: %w", translateError(err))
	}

	return nil
}

func (r UserRepo) Get(ctx context.Context, id string) (entity.User, error) {
	if !validID(id) {
		return entity.User{}, entity.ErrNotFound
	}
	return r.getBy(ctx, "id", id)
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r UserRepo) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r UserRepo) getBy(ctx context.Context, column, value string) (entity.User, error) {
	row := conn(ctx, r.db).QueryRowxContext(ctx, selectUsers+" WHERE "+column+" = $1", value)

	var u entity.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return entity.User{}, fmt.Errorf("getting user by %s: %w", column, translateError(err))
	}

	return u, nil
}

func (r UserRepo) UpdateUsername(ctx context.Context, id, username string) error {
	if !validID(id) {
		return entity.ErrNotFound
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE users SET username = $1 WHERE id = $2", username, id)
	if err != nil {
		return fmt.Errorf("updating username: %w", translateError(err))
	}

	return expectOneRow(res)
}

// Delete removes the user together with their events, every ticket held
// on those events and the user's own tickets.
func (r UserRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return entity.ErrNotFound
	}

	return NewTransactor(r.db).Transact(ctx, func(ctx context.Context) error {
		c := conn(ctx, r.db)

		_, err := c.ExecContext(ctx, `DELETE FROM tickets
			WHERE user_id = $1
			OR event_id IN (SELECT id FROM events WHERE creator_id = $1)`, id)
		if err != nil {
			return fmt.Errorf("deleting user tickets: %w", err)
		}

		if _, err := c.ExecContext(ctx, "DELETE FROM events WHERE creator_id = $1", id); err != nil {
			return fmt.Errorf("deleting user events: %w", err)
		}

		res, err := c.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("executing delete query: %w", err)
		}

		return expectOneRow(res)
	})
}

package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InitialiseDB creates the tables in dependency order.
func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	if err := CreateUsersTable(ctx, db); err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	if err := CreateEventsTable(ctx, db); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	if err := CreateTicketsTable(ctx, db); err != nil {
		return fmt.Errorf("creating tickets table: %w", err)
	}

	return nil
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"ticketing/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Unique constraints whose violation has a more specific sentinel than
// entity.ErrConflict. Names are the ones PostgreSQL generates for the
// inline UNIQUE columns in CreateUsersTable.
var uniqueConstraintErrors = map[string]error{
	"users_email_key":    entity.ErrEmailTaken,
	"users_username_key": entity.ErrUsernameTaken,
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if sentinel, ok := uniqueConstraintErrors[pgErr.Constraint]; ok {
				return sentinel
			}
			return fmt.Errorf("%w: %s", entity.ErrConflict, pgErr.Constraint)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", entity.ErrNotFound, pgErr.Constraint)
		}
	}

	return err
}

// validID reports whether id can be compared against a UUID column.
// Anything else can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	if n != 1 {
		return fmt.Errorf("unexpected exec result: %d rows affected", n)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

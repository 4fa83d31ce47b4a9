package entity

import (
	"errors"
	"fmt"
)

// Repository sentinels. Callers match them with errors.Is.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")

	// Both match ErrConflict.
	ErrEmailTaken    = fmt.Errorf("%w: email", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("%w: username", ErrConflict)
)

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"ticketing/auth"
	"ticketing/entity"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
)

const maxUsernameLength = 80
const maxEmailLength = 120

// Session is what a successful signup or login hands back to the client.
type Session struct {
	Token string
	User  entity.User
}

type AuthService struct {
	tx        Transactor
	users     UserRepo
	passwords PasswordHasher
	tokens    TokenIssuer
	now       func() time.Time
}

func NewAuthService(tx Transactor, users UserRepo, passwords PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		tx:        tx,
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		now:       time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return Session{}, validationError("Username, email, and password are required")
	}
	if len(username) > maxUsernameLength {
		return Session{}, validationError(fmt.Sprintf("Username must be at most %d characters", maxUsernameLength))
	}
	if len(email) > maxEmailLength {
		return Session{}, validationError(fmt.Sprintf("Email must be at most %d characters", maxEmailLength))
	}

	hash, err := s.passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return Session{}, validationError("Password must be at most 72 bytes")
	}
	if err != nil {
		return Session{}, err
	}

	user := entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if found, err := taken(s.users.GetByEmail(ctx, email)); err != nil {
			return fmt.Errorf("getting user by email: %w", err)
		} else if found {
			return conflictError("Email already registered")
		}

		if found, err := taken(s.users.GetByUsername(ctx, username)); err != nil {
			return fmt.Errorf("getting user by username: %w", err)
		} else if found {
			return conflictError("Username already taken")
		}

		// The unique constraints still catch a signup racing this one.
		if err := s.users.Add(ctx, user); err != nil {
			switch {
			case errors.Is(err, entity.ErrEmailTaken):
				return conflictError("Email already registered")
			case errors.Is(err, entity.ErrUsernameTaken):
				return conflictError("Username already taken")
			}
			return fmt.Errorf("adding user: %w", err)
		}

		return nil
	})
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issuing token: %w", err)
	}

	log.FromContext(ctx).WithField("user_id", user.ID).Info("User signed up")

	return Session{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, validationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return Session{}, authenticationError("Invalid credentials")
	}
	if err != nil {
		return Session{}, fmt.Errorf("getting user by email: %w", err)
	}

	ok, err := s.passwords.Matches(user.PasswordHash, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, authenticationError("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issuing token: %w", err)
	}

	return Session{Token: token, User: user}, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, username string) (entity.User, error) {
	username = strings.TrimSpace(username)

	var user entity.User
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.Get(ctx, userID)
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundError("User not found")
		}
		if err != nil {
			return fmt.Errorf("getting user: %w", err)
		}

		if username == "" {
			return validationError("Username cannot be empty")
		}
		if len(username) > maxUsernameLength {
			return validationError(fmt.Sprintf("Username must be at most %d characters", maxUsernameLength))
		}

		other, err := s.users.GetByUsername(ctx, username)
		if err == nil && other.ID != user.ID {
			return conflictError("Username already taken")
		}
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("getting user by username: %w", err)
		}

		if err := s.users.UpdateUsername(ctx, user.ID, username); err != nil {
			if errors.Is(err, entity.ErrConflict) {
				return conflictError("Username already taken")
			}
			return fmt.Errorf("updating username: %w", err)
		}
		user.Username = username

		return nil
	})
	if err != nil {
		return entity.User{}, err
	}

	return user, nil
}

// DeleteAccount removes the user with everything they own.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		err := s.users.Delete(ctx, userID)
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundError("User not found")
		}
		if err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.FromContext(ctx).WithField("user_id", userID).Info("User deleted")

	return nil
}

// VerifyToken returns the id of the user the bearer token was issued to.
func (s *AuthService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", authenticationError("Missing authorization token")
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", authenticationError("Invalid or expired token")
	}

	return userID, nil
}

// taken turns a user lookup into whether the user exists.
func taken(_ entity.User, err error) (bool, error) {
	if errors.Is(err, entity.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

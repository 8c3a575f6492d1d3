// Package service holds the business rules between external callers and the
// repositories:
//
//	caller (CLI, API layer, ...) → service (rules) → repository (storage)
//
// Services validate input, enforce the domain invariants, and translate
// everything into typed apperror failures. They never touch SQL and never
// make policy about logging or retrying on behalf of the caller.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

const (
	maxNameLength     = 50
	minPasswordLength = 6
	maxPasswordLength = 40
)

// emailPattern accepts local@domain.tld: word characters (plus + - .) before
// the @, dot-separated labels after it, and an alphabetic TLD. Consecutive
// dots are rejected separately since the character class can't express it.
var emailPattern = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+$`)

// NormalizeEmail lower-cases and trims an email address. Every email that
// reaches a repository goes through here, which is what makes email
// uniqueness and lookup case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserService owns user identity: creation with full validation, destruction
// with cascade, and the administrative flag.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with its dependencies.
func NewUserService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Create validates all fields and persists a new user.
//
// On validation failure it returns a *apperror.ValidationError carrying one
// entry per violated constraint, and nothing is persisted. The plaintext
// password is hashed with a fresh salt and discarded; the admin flag always
// starts false regardless of the caller.
//
// A duplicate email that races past the uniqueness pre-check still fails at
// the database's UNIQUE constraint and surfaces as apperror.ErrConflict.
func (s *UserService) Create(ctx context.Context, name, email, password, confirmation string) (*model.User, error) {
	email = NormalizeEmail(email)

	verr := &apperror.ValidationError{}

	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("name", "name can't be blank")
	} else if utf8.RuneCountInString(name) > maxNameLength {
		verr.Add("name", fmt.Sprintf("name is too long (maximum is %d characters)", maxNameLength))
	}

	if email == "" {
		verr.Add("email", "email can't be blank")
	} else if !validEmail(email) {
		verr.Add("email", "email is invalid")
	} else {
		_, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			verr.Add("email", "email has already been taken")
		case errors.Is(err, apperror.ErrNotFound):
			// free to use
		default:
			return nil, fmt.Errorf("service/user: checking email uniqueness: %w", err)
		}
	}

	switch n := utf8.RuneCountInString(password); {
	case n < minPasswordLength:
		verr.Add("password", fmt.Sprintf("password is too short (minimum is %d characters)", minPasswordLength))
	case n > maxPasswordLength:
		verr.Add("password", fmt.Sprintf("password is too long (maximum is %d characters)", maxPasswordLength))
	}
	if password != confirmation {
		verr.Add("passwordConfirmation", "password confirmation doesn't match password")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	salt, err := s.passwords.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("service/user: %w", err)
	}
	hash, err := s.passwords.Hash(password, salt)
	if err != nil {
		return nil, fmt.Errorf("service/user: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Admin:        false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Get returns the user with the given ID.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user %d: %w", id, err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email, compared
// case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching user by email: %w", err)
	}
	return user, nil
}

// Destroy removes the user and everything the user owns — all their
// microposts and every follow edge where they are follower or followed —
// in one atomic unit. The repository runs the whole cascade in a single
// transaction, so no reader observes a partially deleted account.
func (s *UserService) Destroy(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/user: destroying user %d: %w", id, err)
	}

	s.logger.Info("user destroyed", slog.Int64("userID", id))
	return nil
}

// SetAdmin toggles the administrative flag.
func (s *UserService) SetAdmin(ctx context.Context, id int64, admin bool) error {
	if err := s.users.SetAdmin(ctx, id, admin); err != nil {
		return fmt.Errorf("service/user: setting admin flag: %w", err)
	}

	s.logger.Info("admin flag changed",
		slog.Int64("userID", id),
		slog.Bool("admin", admin),
	)
	return nil
}

// validEmail checks the address grammar: must contain "@", at least one "."
// in the domain, no forbidden characters, no consecutive dots.
func validEmail(email string) bool {
	if strings.Contains(email, "..") {
		return false
	}
	return emailPattern.MatchString(email)
}

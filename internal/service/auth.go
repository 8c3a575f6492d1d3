package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// Dummy credential hashed when authentication hits an unknown email. Both
// failure paths then pay one KDF evaluation, so response time does not
// reveal whether the email exists.
const (
	dummySalt = "0123456789abcdef0123456789abcdef"
	dummyHash = "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
)

// AuthService authenticates credentials and issues access tokens.
//
// The token part is optional: a caller that manages its own sessions can
// construct the service without a TokenService and use Authenticate alone.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService. tokens may be nil if the caller
// never uses Login/ValidateToken.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the issued token so the
// caller can store both in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Authenticate verifies an email/password pair and returns the matching
// user.
//
// Every failure — unknown email or wrong password — is the same
// apperror.ErrInvalidCredentials; the caller cannot tell which occurred,
// and neither can anyone timing the call (see dummy credential above).
// Infrastructure errors are returned as-is and are distinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn a hash evaluation to keep timing symmetric with the
			// wrong-password path.
			s.passwords.Verify(password, dummySalt, dummyHash)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if !s.passwords.Verify(password, user.Salt, user.PasswordHash) {
		return nil, apperror.InvalidCredentials()
	}

	return user, nil
}

// Login authenticates and issues a signed access token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("service/auth: no token service configured")
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken verifies a token string and returns the user ID it encodes.
func (s *AuthService) ValidateToken(tokenStr string) (int64, error) {
	if s.tokens == nil {
		return 0, fmt.Errorf("service/auth: no token service configured")
	}

	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return 0, fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

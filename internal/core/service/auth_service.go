package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// dummyPassword feeds the hash compared against when no user matches, so an
// unknown email costs the same as a wrong password.
const dummyPassword = "timing-equaliser-not-a-real-password"

// AuthService implements sign-in.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	log       zerolog.Logger
	dummyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash(context.Background(), dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("derive dummy hash: %w", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}, nil
}

// SignIn looks the user up by email, verifies the password and issues a
// token. Lookup misses, store failures and password mismatches all return
// domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("credential lookup failed")
		}
		_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
		return "", domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("password verification failed")
		return "", domain.ErrInvalidCredentials
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{
		UserID:   user.ID,
		Username: user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user signed in")
	return token, nil
}

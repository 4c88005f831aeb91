package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

// bcrypt only reads the first 72 bytes of a password and refuses to hash more.
const maxPasswordBytes = 72

type UserService struct {
	repo           ports.UserRepository
	hasher         ports.PasswordHasher
	minPasswordLen int
	log            zerolog.Logger
}

// NewUserService takes the minimum password length as an explicit policy.
func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, minPasswordLen int, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, minPasswordLen: minPasswordLen, log: log}
}

// Register hashes the password and persists the user. The hash is computed
// here, before the store is called, and is never recomputed afterwards.
func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.UserView, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, &domain.ValidationError{Field: "role", Message: "must be one of: " + roleNames()}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	email := domain.NormalizeEmail(in.Email)
	if email == "" {
		return nil, &domain.ValidationError{Field: "email", Message: "is required"}
	}
	if utf8.RuneCountInString(in.Password) < s.minPasswordLen {
		return nil, &domain.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", s.minPasswordLen)}
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, &domain.ValidationError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)}
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")

	view := created.View()
	return &view, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.UserView, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := u.View()
	return &view, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserView, len(users))
	for i, u := range users {
		out[i] = u.View()
	}
	return out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func roleNames() string {
	roles := domain.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

func TestUserService_Register_HashesBeforeStore(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubHasher{}, 3, discardLogger)

	view, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Name: "John", Email: "John@Example.com", Password: "min length 3 character", Role: "User",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if view.ID == 0 || view.Email != "john@example.com" || view.Role != domain.RoleUser {
		t.Fatalf("unexpected view: %+v", view)
	}

	stored := repo.byID[view.ID]
	if stored.PasswordHash == "min length 3 character" {
		t.Fatalf("expected password to be hashed")
	}
	if stored.PasswordHash != "hashed:min length 3 character" {
		t.Fatalf("unexpected stored hash: %q", stored.PasswordHash)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), &stubHasher{}, 6, discardLogger)

	cases := map[string]ports.RegisterUserInput{
		"role":     {Name: "Bob", Email: "bob@example.com", Password: "longenough", Role: "Human"},
		"name":     {Name: "  ", Email: "bob@example.com", Password: "longenough", Role: "User"},
		"email":    {Name: "Bob", Email: " ", Password: "longenough", Role: "User"},
		"password": {Name: "Bob", Email: "bob@example.com", Password: "short", Role: "User"},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := svc.Register(context.Background(), in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != field {
				t.Fatalf("expected field %q, got %q", field, ve.Field)
			}
		})
	}
}

func TestUserService_Register_MinLengthIsConfigurable(t *testing.T) {
	lenient := NewUserService(newStubUserRepo(), &stubHasher{}, 3, discardLogger)
	if _, err := lenient.Register(context.Background(), ports.RegisterUserInput{
		Name: "Ann", Email: "ann@example.com", Password: "abc", Role: "User",
	}); err != nil {
		t.Fatalf("expected 3-char password to pass with min=3, got %v", err)
	}

	strict := NewUserService(newStubUserRepo(), &stubHasher{}, 6, discardLogger)
	if _, err := strict.Register(context.Background(), ports.RegisterUserInput{
		Name: "Ann", Email: "ann@example.com", Password: "abc", Role: "User",
	}); err == nil {
		t.Fatalf("expected 3-char password to fail with min=6")
	}
}

func TestUserService_Register_PasswordByteLimit(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubHasher{}, 8, discardLogger)

	// 72 characters but 144 bytes.
	_, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Name: "Ann", Email: "ann@example.com", Password: strings.Repeat("é", 72), Role: "User",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("expected password ValidationError, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing stored")
	}

	if _, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Name: "Ann", Email: "ann@example.com", Password: strings.Repeat("é", 36), Role: "User",
	}); err != nil {
		t.Fatalf("expected 72-byte password to pass, got %v", err)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), &stubHasher{}, 3, discardLogger)

	in := ports.RegisterUserInput{Name: "Bob", Email: "bob@example.com", Password: "pass", Role: "User"}
	_, _ = svc.Register(context.Background(), in)

	in.Email = "BOB@example.com"
	if _, err := svc.Register(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Register_CancelledContextPersistsNothing(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubHasher{}, 3, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Register(ctx, ports.RegisterUserInput{
		Name: "Cid", Email: "cid@example.com", Password: "pass", Role: "User",
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no user persisted, got %d", len(repo.byID))
	}
}

func TestUserService_GetListDelete(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), &stubHasher{}, 3, discardLogger)
	ctx := context.Background()

	a, _ := svc.Register(ctx, ports.RegisterUserInput{Name: "Ann", Email: "ann@example.com", Password: "pass", Role: "User"})
	b, _ := svc.Register(ctx, ports.RegisterUserInput{Name: "Ben", Email: "ben@example.com", Password: "pass", Role: "Admin"})

	got, err := svc.Get(ctx, b.ID)
	if err != nil || got.Name != "Ben" {
		t.Fatalf("unexpected get result: %+v (%v)", got, err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != a.ID {
		t.Fatalf("unexpected list: %+v (%v)", list, err)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, a.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nestmart/shop-api/internal/core/domain"
	"github.com/nestmart/shop-api/internal/core/ports"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService, *stubUserRepo, *stubHasher, *stubIssuer) {
	t.Helper()
	repo := newStubUserRepo()
	hasher := &stubHasher{}
	issuer := &stubIssuer{}
	auth, err := NewAuthService(repo, hasher, issuer, discardLogger)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	users := NewUserService(repo, hasher, 3, discardLogger)
	return auth, users, repo, hasher, issuer
}

func TestAuthService_SignIn_Success(t *testing.T) {
	auth, users, _, _, issuer := newAuthFixture(t)

	created, err := users.Register(context.Background(), ports.RegisterUserInput{
		Name: "John", Email: "john@example.com", Password: "min length 3 character", Role: "User",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := auth.SignIn(context.Background(), "john@example.com", "min length 3 character")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	want := domain.Identity{UserID: created.ID, Username: "john@example.com", Role: domain.RoleUser}
	if issuer.last != want {
		t.Fatalf("expected claims %+v, got %+v", want, issuer.last)
	}
}

func TestAuthService_SignIn_EmailIsCaseInsensitive(t *testing.T) {
	auth, users, _, _, _ := newAuthFixture(t)

	_, _ = users.Register(context.Background(), ports.RegisterUserInput{
		Name: "John", Email: "John@Example.com", Password: "secret", Role: "User",
	})
	if _, err := auth.SignIn(context.Background(), "  JOHN@example.COM", "secret"); err != nil {
		t.Fatalf("expected sign in with differently-cased email to succeed, got %v", err)
	}
}

func TestAuthService_SignIn_FailuresAreIndistinguishable(t *testing.T) {
	auth, users, _, hasher, _ := newAuthFixture(t)

	_, _ = users.Register(context.Background(), ports.RegisterUserInput{
		Name: "Dave", Email: "dave@example.com", Password: "goodpass", Role: "User",
	})

	before := hasher.verifyCalls
	_, unknownErr := auth.SignIn(context.Background(), "ghost@example.com", "goodpass")
	if hasher.verifyCalls != before+1 {
		t.Fatalf("expected a dummy verification for an unknown email")
	}
	_, wrongErr := auth.SignIn(context.Background(), "dave@example.com", "badpass")

	if unknownErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
	}
	if wrongErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error shapes differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthService_SignIn_StoreFailureIsFolded(t *testing.T) {
	auth, _, repo, _, _ := newAuthFixture(t)
	repo.findErr = errors.New("connection refused")

	if _, err := auth.SignIn(context.Background(), "a@example.com", "pwd"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_HashFailureIsFolded(t *testing.T) {
	auth, users, _, hasher, _ := newAuthFixture(t)
	_, _ = users.Register(context.Background(), ports.RegisterUserInput{
		Name: "Eve", Email: "eve@example.com", Password: "secret", Role: "User",
	})
	hasher.verifyErr = errors.New("corrupt hash")

	if _, err := auth.SignIn(context.Background(), "eve@example.com", "secret"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_EmptyInput(t *testing.T) {
	auth, _, _, _, _ := newAuthFixture(t)

	if _, err := auth.SignIn(context.Background(), "", "pwd"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.SignIn(context.Background(), "a@example.com", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_IssuerError(t *testing.T) {
	auth, users, _, _, issuer := newAuthFixture(t)
	_, _ = users.Register(context.Background(), ports.RegisterUserInput{
		Name: "Fay", Email: "fay@example.com", Password: "secret", Role: "Admin",
	})
	issuer.err = errors.New("signer unavailable")

	_, err := auth.SignIn(context.Background(), "fay@example.com", "secret")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"User", "Admin", "Manager"} {
		r, err := ParseRole(s)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", s, err)
		}
		if string(r) != s {
			t.Fatalf("expected %q, got %q", s, r)
		}
	}

	for _, s := range []string{"", "admin", "ADMIN", "AI", "Human", " User"} {
		if _, err := ParseRole(s); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", s, err)
		}
	}
}

func TestParseRoles(t *testing.T) {
	set, err := ParseRoles("Admin", "Manager", "Admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 2 || !set.Contains(RoleAdmin) || !set.Contains(RoleManager) {
		t.Fatalf("unexpected set: %v", set)
	}
	if set.String() != "Admin,Manager" {
		t.Fatalf("unexpected string form: %s", set.String())
	}

	if _, err := ParseRoles("Admin", "SuperUser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	empty, err := ParseRoles()
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty set, got %v (%v)", empty, err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  John@Example.COM "); got != "john@example.com" {
		t.Fatalf("unexpected normalized email: %q", got)
	}
}

func TestUserView_ExcludesPassword(t *testing.T) {
	u := &User{ID: 3, Name: "John", Email: "john@example.com", PasswordHash: "$2a$12$abc", Role: RoleUser}
	v := u.View()
	if v.ID != 3 || v.Name != "John" || v.Email != "john@example.com" || v.Role != RoleUser {
		t.Fatalf("unexpected view: %+v", v)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestRegister_NormalizesAndValidates(t *testing.T) {
	users := newMockUserStore()
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice@Example.COM ", "long-enough-pw", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %s, want normalized lowercase", u.Email)
	}
	if u.PasswordHash == "long-enough-pw" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if u.IsSuperuser {
		t.Error("self-registered accounts must not be superusers")
	}

	if _, err := svc.Register(ctx, "alice@example.com", "long-enough-pw", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: got %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(ctx, "bob@example.com", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: got %v, want ErrWeakPassword", err)
	}
	if _, err := svc.Register(ctx, "not-an-email", "long-enough-pw", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate(t *testing.T) {
	users := newMockUserStore()
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "long-enough-pw", "Alice")
	if err != nil {
		t.Fatal(err)
	}

	u, err := svc.Authenticate(ctx, "ALICE@example.com", "long-enough-pw")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != registered.ID {
		t.Error("authenticated the wrong account")
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "long-enough-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	registered.IsActive = false
	if err := users.Update(ctx, registered); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, "alice@example.com", "long-enough-pw"); !errors.Is(err, ErrUserInactive) {
		t.Errorf("inactive account: got %v, want ErrUserInactive", err)
	}
}

func TestEnsureSuperuser_Idempotent(t *testing.T) {
	users := newMockUserStore()
	svc := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	if err := svc.EnsureSuperuser(ctx, "admin@example.com", "admin-password"); err != nil {
		t.Fatal(err)
	}
	u, err := users.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsSuperuser || !u.IsActive {
		t.Error("bootstrap account should be an active superuser")
	}

	// second run is a no-op
	if err := svc.EnsureSuperuser(ctx, "admin@example.com", "different-password"); err != nil {
		t.Fatal(err)
	}
	all, err := users.List(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("users = %d, want 1", len(all))
	}

	// unset config skips bootstrapping
	if err := svc.EnsureSuperuser(ctx, "", ""); err != nil {
		t.Fatal(err)
	}
}

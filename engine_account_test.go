package leagueauth

import (
	"context"
	"errors"
	"testing"

	"github.com/ligastats/leagueauth/permission"
)

func TestRegisterAssignsDefaultRole(t *testing.T) {
	env := newTestEngine(t)
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	if len(resp.User.Roles) != 1 || resp.User.Roles[0] != permission.RoleViewer {
		t.Fatalf("roles = %v, want [VIEWER]", resp.User.Roles)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("registration did not issue a token pair")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEngine(t)
	mustRegister(t, env, "alice@example.com", "s3cret-pass")

	_, err := env.engine.Register(context.Background(), "Alice@Example.com", "another-pass")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrEmailAlreadyRegistered", err)
	}
}

func TestRegisterConfiguredRole(t *testing.T) {
	env := newTestEngine(t, func(c *Config) { c.Account.DefaultRole = permission.RoleContentEditor })
	resp := mustRegister(t, env, "editor@example.com", "s3cret-pass")

	if len(resp.User.Roles) != 1 || resp.User.Roles[0] != permission.RoleContentEditor {
		t.Fatalf("roles = %v, want [CONTENT_EDITOR]", resp.User.Roles)
	}
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "old-pass-123")

	if err := env.engine.UpdatePassword(ctx, resp.User.ID, "old-pass-123", "new-pass-456"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	if _, err := env.engine.Login(ctx, "alice@example.com", "old-pass-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := env.engine.Login(ctx, "alice@example.com", "new-pass-456"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	env := newTestEngine(t)
	resp := mustRegister(t, env, "alice@example.com", "old-pass-123")

	err := env.engine.UpdatePassword(context.Background(), resp.User.ID, "not-it", "new-pass-456")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdatePasswordUnknownUser(t *testing.T) {
	env := newTestEngine(t)

	err := env.engine.UpdatePassword(context.Background(), "no-such-id", "a", "b")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdatePasswordKeepsSessionsByDefault(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "old-pass-123")

	if err := env.engine.UpdatePassword(ctx, resp.User.ID, "old-pass-123", "new-pass-456"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := env.engine.Refresh(ctx, resp.RefreshToken); err != nil {
		t.Fatalf("refresh after password change: %v", err)
	}
}

func TestUpdatePasswordRevokesSessionsWhenConfigured(t *testing.T) {
	env := newTestEngine(t, func(c *Config) { c.Security.RevokeSessionsOnPasswordChange = true })
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "old-pass-123")

	if err := env.engine.UpdatePassword(ctx, resp.User.ID, "old-pass-123", "new-pass-456"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := env.engine.Refresh(ctx, resp.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("refresh after revoking change: %v, want ErrInvalidRefreshToken", err)
	}
}

func TestProfile(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	p, err := env.engine.Profile(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Email != "alice@example.com" {
		t.Fatalf("email = %q", p.Email)
	}
	if len(p.Roles) != 1 || p.Roles[0] != permission.RoleViewer {
		t.Fatalf("roles = %v", p.Roles)
	}
	if !permission.Allowed(p.Permissions, permission.ReadLeague) {
		t.Fatal("viewer profile missing ReadLeague")
	}
	if permission.Allowed(p.Permissions, permission.ManageUsers) {
		t.Fatal("viewer profile unexpectedly grants ManageUsers")
	}
}

func TestProfileUnknownUser(t *testing.T) {
	env := newTestEngine(t)

	_, err := env.engine.Profile(context.Background(), "no-such-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

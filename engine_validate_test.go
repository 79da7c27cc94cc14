package leagueauth

import (
	"context"
	"errors"
	"testing"

	"github.com/ligastats/leagueauth/permission"
)

func TestValidateAccess(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	claims, err := env.engine.ValidateAccess(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if claims.Subject != resp.User.ID {
		t.Fatalf("subject = %q, want %q", claims.Subject, resp.User.ID)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if !permission.Allowed(claims.Permissions, permission.ReadLeague) {
		t.Fatal("claims missing ReadLeague")
	}
}

func TestValidateAccessRejectsRefreshToken(t *testing.T) {
	// Access and refresh tokens are signed with distinct secrets, so
	// presenting a refresh token at the access gate must fail.
	env := newTestEngine(t)
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	_, err := env.engine.ValidateAccess(context.Background(), resp.RefreshToken)
	if !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("err = %v, want ErrInvalidAccessToken", err)
	}
}

func TestValidateAccessGarbage(t *testing.T) {
	env := newTestEngine(t)

	_, err := env.engine.ValidateAccess(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("err = %v, want ErrInvalidAccessToken", err)
	}
}

func TestValidateAccessOffline(t *testing.T) {
	// Access-token checks consult no store: the token survives even a
	// wiped ledger until it expires on its own.
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	env.redis.FlushAll()

	if _, err := env.engine.ValidateAccess(ctx, resp.AccessToken); err != nil {
		t.Fatalf("ValidateAccess after ledger wipe: %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	if _, err := env.engine.Authorize(ctx, resp.AccessToken, permission.ReadLeague, permission.ReadTeam); err != nil {
		t.Fatalf("Authorize with granted permissions: %v", err)
	}

	_, err := env.engine.Authorize(ctx, resp.AccessToken, permission.ManageUsers)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestAuthorizeNoRequirements(t *testing.T) {
	env := newTestEngine(t)
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	if _, err := env.engine.Authorize(context.Background(), resp.AccessToken); err != nil {
		t.Fatalf("Authorize with no requirements: %v", err)
	}
}

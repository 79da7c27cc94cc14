package leagueauth

import (
	"errors"

	"github.com/ligastats/leagueauth/duration"
)

var (
	// ErrInvalidCredentials covers bad email, bad password, and blocked
	// accounts. The three cases are intentionally indistinguishable so
	// callers cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailAlreadyRegistered is returned by Register for a known email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidRefreshToken covers a bad signature, an unknown token,
	// and an already-revoked token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenExpired is returned when the ledger row backing a
	// validly signed refresh token has passed its expiry.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrTokenUserMismatch is returned when a ledger row's owner does not
	// match the identity signed into the presented refresh token.
	ErrTokenUserMismatch = errors.New("token user mismatch")

	// ErrRolesChanged is terminal for every session of the user: all
	// refresh tokens are revoked and the caller must authenticate again.
	ErrRolesChanged = errors.New("user roles have changed, please login again")

	// ErrInvalidAccessToken is returned by ValidateAccess.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrPermissionDenied is returned by Authorize.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUserNotFound is returned by operations addressed to a user id
	// that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound indicates the configured default role is missing
	// from the host's role store.
	ErrRoleNotFound = errors.New("role not found")

	// ErrEngineNotReady is returned when a method runs on an engine that
	// was not produced by [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ErrInvalidDurationFormat is the TTL-grammar error. It surfaces from
// [Config.Validate] at startup, never per-request.
var ErrInvalidDurationFormat = duration.ErrInvalidFormat

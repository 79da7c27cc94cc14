package leagueauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ligastats/leagueauth/duration"
)

// Config holds all engine settings. Zero values fall back to the
// defaults installed by [New]; Validate runs at [Builder.Build] time so
// configuration mistakes are fatal at startup rather than surfacing
// per-request.
type Config struct {
	JWT      JWTConfig
	Security SecurityConfig
	Password PasswordConfig
	Ledger   LedgerConfig
	Account  AccountConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the signing secrets and TTL strings for the token
// pair. TTLs use the duration grammar ("15m", "7d"). The two secrets
// must differ.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     string
	RefreshTTL    string
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls lockout and the two session-revocation
// switches. Both switches default to off, matching the platform's
// historical behavior; see DESIGN.md for the trade-offs.
type SecurityConfig struct {
	// LockoutThreshold is the number of consecutive failed logins after
	// which the account is blocked.
	LockoutThreshold int

	// RotateRefreshTokens revokes the consumed refresh token after each
	// successful refresh (single-use rotation). When off, a refresh
	// token stays independently valid until expiry or explicit
	// revocation, and duplicate concurrent refreshes each succeed.
	RotateRefreshTokens bool

	// RevokeSessionsOnPasswordChange bulk-revokes the user's refresh
	// tokens after UpdatePassword succeeds.
	RevokeSessionsOnPasswordChange bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries the bcrypt cost. Zero means the package
// default.
type PasswordConfig struct {
	Cost int
}

/*
====================================
LEDGER CONFIG
====================================
*/

// LedgerConfig namespaces the Redis refresh-token ledger.
type LedgerConfig struct {
	RedisPrefix string
	Retention   time.Duration
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// AccountConfig controls registration.
type AccountConfig struct {
	// DefaultRole is assigned to newly registered users. It must exist
	// in the permission catalog and in the host's role store.
	DefaultRole string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking the request path when
	// the buffer is saturated. Dropped counts are observable via
	// [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration. It has no signing
// secrets and will not validate until the caller supplies them.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  "15m",
			RefreshTTL: "7d",
		},
		Security: SecurityConfig{
			LockoutThreshold: 5,
		},
		Ledger: LedgerConfig{
			RedisPrefix: "lal",
		},
		Account: AccountConfig{
			DefaultRole: "VIEWER",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate checks the configuration. TTL strings are parsed here so an
// invalid duration fails the build instead of every token issuance.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return errors.New("JWT access secret required")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("JWT refresh secret required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT access and refresh secrets must differ")
	}

	if _, err := duration.Parse(c.JWT.AccessTTL); err != nil {
		return fmt.Errorf("JWT access TTL: %w", err)
	}
	if _, err := duration.Parse(c.JWT.RefreshTTL); err != nil {
		return fmt.Errorf("JWT refresh TTL: %w", err)
	}

	if c.Security.LockoutThreshold <= 0 {
		return errors.New("lockout threshold must be positive")
	}
	if c.Account.DefaultRole == "" {
		return errors.New("account default role required")
	}
	if c.Ledger.Retention < 0 {
		return errors.New("ledger retention cannot be negative")
	}

	return nil
}

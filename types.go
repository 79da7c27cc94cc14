package leagueauth

import (
	"context"
	"time"

	"github.com/ligastats/leagueauth/permission"
)

// Role is re-exported for [UserStore] implementations.
type Role = permission.Role

// User is the account record surfaced by [UserStore]. The engine
// mutates lockout state (FailedLoginAttempts, IsBlocked), LastLoginAt,
// and PasswordHash, and persists those mutations through
// [UserStore.SaveUser]; it never deletes users.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Roles               []Role
	ManagedTeamID       *int64
	IsBlocked           bool
	FailedLoginAttempts int
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserStore is implemented by the host application to integrate the
// engine with its user database. Lookups report absence as (nil, nil);
// non-nil errors mean the backend itself failed and propagate to the
// caller unchanged.
//
// SaveUser persists the user as given, creating or overwriting the
// stored record; any backend-assigned fields must be written back
// through the passed pointer.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	FindRoleByName(ctx context.Context, name string) (*Role, error)
}

// TokenUser is the identity echo embedded in a [TokenResponse].
type TokenUser struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// TokenResponse is the issued access/refresh pair. ExpiresIn is the
// access-token lifetime in milliseconds.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int64     `json:"expiresIn"`
	User         TokenUser `json:"user"`
}

// Profile is the read model returned by [Engine.Profile].
type Profile struct {
	ID            string                  `json:"id"`
	Email         string                  `json:"email"`
	Roles         []string                `json:"roles"`
	Permissions   []permission.Permission `json:"permissions"`
	ManagedTeamID *int64                  `json:"managedTeamId,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

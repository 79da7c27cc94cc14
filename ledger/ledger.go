// Package ledger persists refresh-token records and implements the
// revocation and expiry bookkeeping consulted by the session rotation
// protocol.
//
// # Architecture boundaries
//
// This package owns refresh-token persistence only. It knows nothing
// about JWT signatures, users, or roles; the engine cross-checks ledger
// rows against signed claims. A Redis-backed [Store] is provided; hosts
// with an existing SQL schema can substitute their own implementation.
package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the ledger backend is unreachable.
var ErrUnavailable = errors.New("refresh token ledger unavailable")

// Record is one issued refresh token. Exactly one record is created per
// token issuance. A record with Revoked set always carries a non-zero
// RevokedAt and is never again treated as valid.
type Record struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt time.Time // zero unless Revoked
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the persisted refresh-token ledger.
//
// Find returns only non-revoked records and reports absence as
// (nil, nil); FindAny ignores the revoked flag. Revoke is a single
// conditional update: it reports whether the row actually transitioned
// to revoked, so a concurrent revoke and refresh cannot both observe
// success against the same row.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Find(ctx context.Context, token string) (*Record, error)
	FindAny(ctx context.Context, token string) (*Record, error)
	Revoke(ctx context.Context, token string, at time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int, error)
	DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) (int, error)
}

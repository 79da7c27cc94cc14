package leagueauth

import (
	"time"

	"github.com/ligastats/leagueauth/ledger"
	"github.com/ligastats/leagueauth/password"
	"github.com/ligastats/leagueauth/permission"
	"github.com/ligastats/leagueauth/token"
)

// Engine is the authentication facade. Construct one with [New] and
// the builder's With* methods; the zero value is not usable.
//
// An Engine is safe for concurrent use. All methods that touch the
// session ledger or the user store accept a context and return the
// sentinel errors defined in errors.go.
type Engine struct {
	config  Config
	users   UserStore
	catalog *permission.Catalog
	ledger  ledger.Store
	hasher  *password.Hasher
	tokens  *token.Manager
	lockout *lockoutPolicy
	audit   *auditDispatcher
	metrics *Metrics

	// accessExpiresIn is the access-token lifetime in milliseconds,
	// precomputed so token responses never re-parse the config string.
	accessExpiresIn int64
	refreshLifetime time.Duration
}

// Close flushes and stops the audit dispatcher. The engine must not
// be used after Close returns.
func (e *Engine) Close() error {
	if e.audit != nil {
		e.audit.Close()
	}
	return nil
}

// Catalog returns the frozen role catalog the engine was built with.
// Hosts use it to enumerate assignable roles and their permissions;
// registrations on the returned catalog are rejected once frozen.
func (e *Engine) Catalog() *permission.Catalog {
	return e.catalog
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because
// the dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

// ready reports whether every required collaborator is wired. Engines
// obtained from [Builder.Build] are always ready; a zero-value Engine
// is not.
func (e *Engine) ready() bool {
	return e != nil && e.users != nil && e.ledger != nil && e.hasher != nil && e.tokens != nil && e.lockout != nil
}

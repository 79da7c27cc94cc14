package leagueauth

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ligastats/leagueauth/duration"
	"github.com/ligastats/leagueauth/ledger"
	"github.com/ligastats/leagueauth/password"
	"github.com/ligastats/leagueauth/permission"
	"github.com/ligastats/leagueauth/token"
)

// Builder assembles an [Engine]. Obtain one with [New], chain the
// With* methods, then call [Builder.Build] exactly once.
type Builder struct {
	config      Config
	redis       redis.UniversalClient
	users       UserStore
	catalog     *permission.Catalog
	ledgerStore ledger.Store
	auditSink   AuditSink
	built       bool
}

// New returns a builder pre-loaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. The config is cloned,
// so later mutations of cfg by the caller have no effect.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the session ledger.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the user persistence backend. Required.
func (b *Builder) WithUserStore(s UserStore) *Builder {
	b.users = s
	return b
}

// WithCatalog replaces the role catalog. When omitted, Build installs
// the platform default catalog.
func (b *Builder) WithCatalog(c *permission.Catalog) *Builder {
	b.catalog = c
	return b
}

// WithLedger replaces the session ledger implementation. When set,
// no Redis client is required.
func (b *Builder) WithLedger(s ledger.Store) *Builder {
	b.ledgerStore = s
	return b
}

// WithAuditSink sets the destination for audit events. When omitted
// and auditing is enabled, events go to a [NoOpSink].
func (b *Builder) WithAuditSink(s AuditSink) *Builder {
	b.auditSink = s
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wiring and returns a ready
// [Engine]. A builder can only be built once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("leagueauth: builder already built")
	}

	if b.users == nil {
		return nil, errors.New("leagueauth: user store is required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	catalog := b.catalog
	if catalog == nil {
		catalog = permission.DefaultCatalog()
	}
	if !catalog.Has(b.config.Account.DefaultRole) {
		return nil, fmt.Errorf("leagueauth: default role %q is not in the catalog", b.config.Account.DefaultRole)
	}

	store := b.ledgerStore
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("leagueauth: a redis client (or a custom ledger) is required")
		}
		store = ledger.NewRedisStore(b.redis, ledger.Config{
			Prefix:    b.config.Ledger.RedisPrefix,
			Retention: b.config.Ledger.Retention,
		})
	}

	hasher, err := password.NewHasher(password.Config{Cost: b.config.Password.Cost})
	if err != nil {
		return nil, err
	}

	accessTTL, err := duration.ParseDuration(b.config.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("leagueauth: access ttl: %w", err)
	}
	refreshTTL, err := duration.ParseDuration(b.config.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("leagueauth: refresh ttl: %w", err)
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  []byte(b.config.JWT.AccessSecret),
		RefreshSecret: []byte(b.config.JWT.RefreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        b.config.JWT.Issuer,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	var dispatcher *auditDispatcher
	if b.config.Audit.Enabled {
		sink := b.auditSink
		if sink == nil {
			sink = NoOpSink{}
		}
		dispatcher = newAuditDispatcher(b.config.Audit, sink)
	}

	e := &Engine{
		config:          b.config,
		users:           b.users,
		catalog:         catalog,
		ledger:          store,
		hasher:          hasher,
		tokens:          tokens,
		lockout:         &lockoutPolicy{threshold: b.config.Security.LockoutThreshold},
		audit:           dispatcher,
		metrics:         NewMetrics(b.config.Metrics),
		accessExpiresIn: accessTTL.Milliseconds(),
		refreshLifetime: refreshTTL,
	}

	b.built = true
	return e, nil
}

package leagueauth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/ligastats/leagueauth/permission"
)

// memUserStore is an in-memory UserStore for tests. Lookups copy the
// stored value so engine-side mutations only land via SaveUser.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
	roles map[string]Role
}

func newMemUserStore() *memUserStore {
	s := &memUserStore{
		users: make(map[string]*User),
		roles: make(map[string]Role),
	}
	cat := permission.DefaultCatalog()
	for _, name := range []string{
		permission.RoleSuperAdmin,
		permission.RoleLeagueManager,
		permission.RoleTeamManager,
		permission.RoleContentEditor,
		permission.RoleViewer,
	} {
		role, _ := cat.Lookup(name)
		s.roles[name] = role
	}
	return s
}

func (s *memUserStore) FindUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindUserByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) SaveUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memUserStore) FindRoleByName(_ context.Context, name string) (*Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

// setRoles replaces a user's role set out from under the engine, the
// way an admin tool editing the database would.
func (s *memUserStore) setRoles(t *testing.T, userID string, names ...string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		t.Fatalf("setRoles: unknown user %q", userID)
	}
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, ok := s.roles[n]
		if !ok {
			t.Fatalf("setRoles: unknown role %q", n)
		}
		roles = append(roles, r)
	}
	u.Roles = roles
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.AccessSecret = "test-access-secret"
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.Password.Cost = bcrypt.MinCost
	cfg.Audit.Enabled = false
	return cfg
}

type testEnv struct {
	engine *Engine
	users  *memUserStore
	redis  *miniredis.Miniredis
}

func newTestEngine(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	users := newMemUserStore()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserStore(users).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	return &testEnv{engine: engine, users: users, redis: mr}
}

func newTestEngineWithSink(t *testing.T, sink AuditSink, mutate ...func(*Config)) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.Audit.Enabled = true
	for _, m := range mutate {
		m(&cfg)
	}

	users := newMemUserStore()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserStore(users).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	return &testEnv{engine: engine, users: users, redis: mr}
}

func mustRegister(t *testing.T, env *testEnv, email, password string) *TokenResponse {
	t.Helper()
	resp, err := env.engine.Register(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Register(%q): %v", email, err)
	}
	return resp
}

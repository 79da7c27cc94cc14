package permission

import (
	"errors"
	"sync"
)

// Platform role names.
const (
	RoleSuperAdmin    = "SUPER_ADMIN"
	RoleLeagueManager = "LEAGUE_MANAGER"
	RoleTeamManager   = "TEAM_MANAGER"
	RoleContentEditor = "CONTENT_EDITOR"
	RoleViewer        = "VIEWER"
)

// Catalog maps role names to their permission definitions. It is built
// by an explicit initialization step (Register calls followed by
// Freeze) and is immutable afterwards; dependents receive the frozen
// catalog rather than fetching role definitions from ambient state.
type Catalog struct {
	mu     sync.RWMutex
	roles  map[string]Role
	frozen bool
}

// NewCatalog creates an empty, unfrozen [Catalog].
func NewCatalog() *Catalog {
	return &Catalog{roles: make(map[string]Role)}
}

// Register adds a role definition. Must be called before [Catalog.Freeze].
func (c *Catalog) Register(role Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return errors.New("catalog frozen")
	}
	if role.Name == "" {
		return errors.New("role name cannot be empty")
	}
	if _, exists := c.roles[role.Name]; exists {
		return errors.New("role already registered")
	}

	c.roles[role.Name] = Role{
		Name:        role.Name,
		Permissions: append([]Permission(nil), role.Permissions...),
		Description: role.Description,
	}
	return nil
}

// Freeze makes the catalog immutable. Idempotent.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Lookup returns the role definition for name.
func (c *Catalog) Lookup(name string) (Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	role, ok := c.roles[name]
	if !ok {
		return Role{}, false
	}
	return Role{
		Name:        role.Name,
		Permissions: append([]Permission(nil), role.Permissions...),
		Description: role.Description,
	}, true
}

// Has reports whether a role with the given name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.roles[name]
	return ok
}

// Len returns the number of registered roles.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roles)
}

// DefaultCatalog returns the frozen role catalog of the league
// platform. VIEWER is the least-privileged role and is the default for
// new registrations.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	roles := []Role{
		{
			Name:        RoleSuperAdmin,
			Permissions: All(),
			Description: "Super administrator with all permissions",
		},
		{
			Name: RoleLeagueManager,
			Permissions: []Permission{
				ReadLeague, UpdateLeague, ManageLeagueSettings,
				CreateTeam, ReadTeam, UpdateTeam, DeleteTeam, ScrapeTeams,
				CreateMatch, UpdateMatch, DeleteMatch, ReportMatchResult,
			},
			Description: "League manager",
		},
		{
			Name: RoleTeamManager,
			Permissions: []Permission{
				ReadTeam, UpdateTeam, ManageTeamPlayers,
				CreatePlayer, ReadPlayer, UpdatePlayer, DeletePlayer, ScrapePlayers,
				ReadMatch, ReportMatchResult,
			},
			Description: "Team manager",
		},
		{
			Name: RoleContentEditor,
			Permissions: []Permission{
				ManageImages, ManageNews, PublishContent,
				ReadLeague, ReadTeam, ReadPlayer, ReadMatch,
			},
			Description: "Content editor",
		},
		{
			Name: RoleViewer,
			Permissions: []Permission{
				ReadLeague, ReadTeam, ReadPlayer, ReadMatch,
			},
			Description: "Read-only viewer",
		},
	}

	for _, role := range roles {
		if err := c.Register(role); err != nil {
			// The seed data is static; a failure here is a programming error.
			panic(err)
		}
	}

	c.Freeze()
	return c
}

// Package permission defines the platform permission vocabulary, the
// role catalog, and the pure projection from a user's roles to the
// permission set embedded in signed token claims.
//
// # Architecture boundaries
//
// This package owns permission identity and role→permission lookup. It
// performs no I/O and never imports the root package or any sibling
// package. Role *storage* (which roles a user holds) belongs to the
// host application's user store.
package permission

import "sort"

// Permission is an opaque capability value. Permissions have no
// internal structure beyond identity and equality.
type Permission string

// Permission vocabulary of the league platform.
const (
	CreateLeague         Permission = "CREATE_LEAGUE"
	ReadLeague           Permission = "READ_LEAGUE"
	UpdateLeague         Permission = "UPDATE_LEAGUE"
	DeleteLeague         Permission = "DELETE_LEAGUE"
	ManageLeagueSettings Permission = "MANAGE_LEAGUE_SETTINGS"

	CreateTeam  Permission = "CREATE_TEAM"
	ReadTeam    Permission = "READ_TEAM"
	UpdateTeam  Permission = "UPDATE_TEAM"
	DeleteTeam  Permission = "DELETE_TEAM"
	ScrapeTeams Permission = "SCRAPE_TEAMS"

	CreatePlayer      Permission = "CREATE_PLAYER"
	ReadPlayer        Permission = "READ_PLAYER"
	UpdatePlayer      Permission = "UPDATE_PLAYER"
	DeletePlayer      Permission = "DELETE_PLAYER"
	ScrapePlayers     Permission = "SCRAPE_PLAYERS"
	ManageTeamPlayers Permission = "MANAGE_TEAM_PLAYERS"

	CreateMatch       Permission = "CREATE_MATCH"
	ReadMatch         Permission = "READ_MATCH"
	UpdateMatch       Permission = "UPDATE_MATCH"
	DeleteMatch       Permission = "DELETE_MATCH"
	ReportMatchResult Permission = "REPORT_MATCH_RESULT"

	ManageImages   Permission = "MANAGE_IMAGES"
	ManageNews     Permission = "MANAGE_NEWS"
	PublishContent Permission = "PUBLISH_CONTENT"

	ManageRoles Permission = "MANAGE_ROLES"
	ManageUsers Permission = "MANAGE_USERS"
)

// All returns every permission in the platform vocabulary.
func All() []Permission {
	return []Permission{
		CreateLeague, ReadLeague, UpdateLeague, DeleteLeague, ManageLeagueSettings,
		CreateTeam, ReadTeam, UpdateTeam, DeleteTeam, ScrapeTeams,
		CreatePlayer, ReadPlayer, UpdatePlayer, DeletePlayer, ScrapePlayers, ManageTeamPlayers,
		CreateMatch, ReadMatch, UpdateMatch, DeleteMatch, ReportMatchResult,
		ManageImages, ManageNews, PublishContent,
		ManageRoles, ManageUsers,
	}
}

// Role is a named, order-irrelevant set of permissions. Roles are
// managed outside this subsystem and are read-only inputs here.
type Role struct {
	Name        string
	Permissions []Permission
	Description string
}

// Project returns the deduplicated union of the permissions granted by
// roles. The result order is unspecified and must not be relied on.
// An empty role list yields an empty set.
func Project(roles []Role) []Permission {
	seen := make(map[Permission]struct{})
	out := make([]Permission, 0, 8)

	for _, role := range roles {
		for _, p := range role.Permissions {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	return out
}

// Names returns the role names in input order.
func Names(roles []Role) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = role.Name
	}
	return out
}

// SameNames reports whether two role-name lists contain the same names,
// ignoring order.
func SameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)

	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Allowed reports whether every required permission is present in
// granted. With no required permissions it is vacuously true.
func Allowed(granted []Permission, required ...Permission) bool {
	if len(required) == 0 {
		return true
	}

	set := make(map[Permission]struct{}, len(granted))
	for _, p := range granted {
		set[p] = struct{}{}
	}

	for _, p := range required {
		if _, ok := set[p]; !ok {
			return false
		}
	}
	return true
}

// Package leagueauth is the credential and session-lifecycle engine of
// the league platform: JWT access tokens with embedded permission
// snapshots, long-lived refresh tokens tracked in a revocable Redis
// ledger, brute-force account lockout, and role-drift detection on
// refresh.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// leagueauth is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (TokenResponse, Profile, AuditEvent). The
// user/role store is an interface the host application implements;
// this package never owns user persistence. Single-concern helpers
// (TTL parsing, permission projection, password hashing, token signing,
// the refresh-token ledger) live in their own sub-packages and never
// import this one.
//
// # What this package must NOT do
//
//   - Bind HTTP routes, read cookies, or serialize transport payloads.
//   - Define or mutate the role→permission catalog at runtime: the
//     catalog is frozen at Build time.
//   - Retry failed authentication on the caller's behalf.
package leagueauth

package leagueauth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRefreshConcurrentSameTokenAllSucceed(t *testing.T) {
	// Without rotation a refresh token is multi-use: duplicate network
	// retries racing on the same token must each independently mint a
	// pair, and every pair must be distinct.
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan *TokenResponse, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			next, err := env.engine.Refresh(ctx, resp.RefreshToken)
			if err != nil {
				t.Errorf("concurrent refresh: %v", err)
				return
			}
			results <- next
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for next := range results {
		if seen[next.RefreshToken] {
			t.Fatal("two concurrent refreshes minted the identical token")
		}
		seen[next.RefreshToken] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d successful refreshes, want %d", len(seen), n)
	}

	// One row from registration plus one per refresh.
	count, err := env.engine.RevokeAllSessions(ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("RevokeAllSessions: %v", err)
	}
	if count != n+1 {
		t.Fatalf("ledger holds %d rows, want %d", count, n+1)
	}
}

func TestRevokeConcurrentSingleTransition(t *testing.T) {
	// The conditional revoke is atomic per row: of n racing revokes
	// exactly one performs the transition, the rest are no-ops.
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := env.engine.Logout(ctx, resp.RefreshToken); err != nil {
				t.Errorf("concurrent logout: %v", err)
			}
		}()
	}
	wg.Wait()

	// Logout only counts real transitions.
	snap := env.engine.MetricsSnapshot()
	if got := snap.Counters[MetricLogout]; got != 1 {
		t.Fatalf("logout transitions = %d, want exactly 1", got)
	}

	if _, err := env.engine.Refresh(ctx, resp.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("refresh after concurrent revoke = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRefreshRaceWithRevoke(t *testing.T) {
	// A refresh racing a revoke on the same row either completes
	// against the still-live row or observes the revocation; it never
	// fails any other way.
	env := newTestEngine(t)
	ctx := context.Background()
	resp := mustRegister(t, env, "alice@example.com", "s3cret-pass")

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n + 1)

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := env.engine.Refresh(ctx, resp.RefreshToken)
			errs <- err
		}()
	}
	go func() {
		defer wg.Done()
		if err := env.engine.Logout(ctx, resp.RefreshToken); err != nil {
			t.Errorf("logout: %v", err)
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, ErrInvalidRefreshToken) {
			t.Fatalf("unexpected refresh error during revoke race: %v", err)
		}
	}

	if _, err := env.engine.Refresh(ctx, resp.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("refresh after settled revoke = %v, want ErrInvalidRefreshToken", err)
	}
}

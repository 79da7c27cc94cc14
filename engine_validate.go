package leagueauth

import (
	"context"
	"time"

	"github.com/ligastats/leagueauth/permission"
	"github.com/ligastats/leagueauth/token"
)

// ValidateAccess verifies an access token offline and returns its
// claims. No store is consulted; a token stays valid until its expiry
// even if the session that issued it was revoked.
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*token.Claims, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	claims, err := e.tokens.ParseAccess(accessToken)
	e.metrics.Observe(MetricValidateLatency, time.Since(start))
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// Authorize validates the access token and then checks that its
// baked-in permission set covers every required permission.
func (e *Engine) Authorize(ctx context.Context, accessToken string, required ...permission.Permission) (*token.Claims, error) {
	claims, err := e.ValidateAccess(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !permission.Allowed(claims.Permissions, required...) {
		return nil, ErrPermissionDenied
	}
	return claims, nil
}

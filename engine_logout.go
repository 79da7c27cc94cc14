package leagueauth

import (
	"context"
	"strconv"
	"time"
)

// Logout revokes one refresh token. Tokens that are unknown or
// already revoked make Logout a no-op, so repeated logouts and
// logouts with garbage input both succeed.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	revoked, err := e.ledger.Revoke(ctx, refreshToken, time.Now())
	if err != nil {
		return err
	}
	if revoked {
		e.metricInc(MetricLogout)
		e.emitAudit(ctx, auditLogout, "", "", true, nil, nil)
	}
	return nil
}

// RevokeAllSessions revokes every active refresh token the user holds
// and reports how many sessions were terminated.
func (e *Engine) RevokeAllSessions(ctx context.Context, userID string) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}

	n, err := e.ledger.RevokeAllForUser(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.metricInc(MetricLogoutAll)
	}
	e.emitAudit(ctx, auditLogoutAll, userID, "", true, nil, map[string]string{
		"revoked": strconv.Itoa(n),
	})
	return n, nil
}

package leagueauth

import (
	"context"
	"time"

	"github.com/ligastats/leagueauth/permission"
)

// Refresh exchanges a refresh token for a fresh token pair.
//
// The token must carry a valid signature, appear in the session
// ledger in non-revoked state, be inside the ledger's expiry window,
// and still match the identity and role set of the account it was
// issued to. Stale or mismatched tokens are revoked as they are
// rejected; a role change revokes every session the user holds and
// fails with [ErrRolesChanged] so the caller re-authenticates into
// the new permission set.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditRefreshInvalid, "", "", false, ErrInvalidRefreshToken, nil)
		return nil, ErrInvalidRefreshToken
	}

	rec, err := e.ledger.Find(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditRefreshInvalid, claims.Subject, claims.Email, false, ErrInvalidRefreshToken, nil)
		return nil, ErrInvalidRefreshToken
	}

	now := time.Now()
	if rec.ExpiresAt.Before(now) {
		if _, err := e.ledger.Revoke(ctx, refreshToken, now); err != nil {
			return nil, err
		}
		e.metricInc(MetricRefreshExpired)
		e.emitAudit(ctx, auditRefreshExpired, rec.UserID, claims.Email, false, ErrRefreshTokenExpired, nil)
		return nil, ErrRefreshTokenExpired
	}

	user, err := e.users.FindUserByID(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID != claims.Subject || user.Email != claims.Email {
		if _, err := e.ledger.Revoke(ctx, refreshToken, now); err != nil {
			return nil, err
		}
		e.metricInc(MetricTokenUserMismatch)
		e.emitAudit(ctx, auditRefreshUserMismatch, rec.UserID, claims.Email, false, ErrTokenUserMismatch, nil)
		return nil, ErrTokenUserMismatch
	}

	if !permission.SameNames(permission.Names(user.Roles), claims.Roles) {
		if _, err := e.ledger.RevokeAllForUser(ctx, user.ID, now); err != nil {
			return nil, err
		}
		e.metricInc(MetricRolesChangedInvalidation)
		e.emitAudit(ctx, auditRolesChangedInvalidation, user.ID, user.Email, false, ErrRolesChanged, nil)
		return nil, ErrRolesChanged
	}

	// Opportunistic sweep; failure here must not break the refresh.
	_, _ = e.ledger.DeleteExpiredForUser(ctx, user.ID, now)

	// The new ledger row keeps the origin IP of the session being
	// continued, not whatever hop the refresh call arrived from.
	issueCtx := ctx
	if rec.IPAddress != "" {
		issueCtx = WithClientIP(ctx, rec.IPAddress)
	}
	if rec.UserAgent != "" {
		issueCtx = WithUserAgent(issueCtx, rec.UserAgent)
	}

	resp, err := e.generateTokens(issueCtx, user)
	if err != nil {
		return nil, err
	}

	if e.config.Security.RotateRefreshTokens {
		if _, err := e.ledger.Revoke(ctx, refreshToken, time.Now()); err != nil {
			return nil, err
		}
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditRefreshSuccess, user.ID, user.Email, true, nil, nil)
	return resp, nil
}

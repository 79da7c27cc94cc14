package leagueauth

import (
	"context"
	"strings"
	"time"
)

// Login authenticates the email/password pair and issues a token
// pair. Unknown accounts, blocked accounts and wrong passwords all
// fail with [ErrInvalidCredentials] so callers cannot probe which
// emails exist.
//
// Every failed password check increments the account's persistent
// failure counter; crossing the configured threshold blocks the
// account until an operator clears the flag.
func (e *Engine) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	email = normalizeEmail(email)

	user, err := e.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsBlocked {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLoginFailure, "", email, false, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		locked := e.lockout.RecordFailure(user)
		user.UpdatedAt = time.Now()
		if err := e.users.SaveUser(ctx, user); err != nil {
			return nil, err
		}

		e.metricInc(MetricLoginFailure)
		if locked {
			e.metricInc(MetricAccountLocked)
			e.emitAudit(ctx, auditAccountLocked, user.ID, email, false, ErrInvalidCredentials, nil)
		} else {
			e.emitAudit(ctx, auditLoginFailure, user.ID, email, false, ErrInvalidCredentials, nil)
		}
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	e.lockout.Reset(user)
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := e.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	resp, err := e.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditLoginSuccess, user.ID, email, true, nil, nil)
	return resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package leagueauth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ligastats/leagueauth/permission"
)

// Register creates an account with the configured default role and
// immediately issues a token pair, so registration doubles as the
// first login.
func (e *Engine) Register(ctx context.Context, email, password string) (*TokenResponse, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	email = normalizeEmail(email)

	existing, err := e.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditRegisterDuplicate, "", email, false, ErrEmailAlreadyRegistered, nil)
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := e.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	role, err := e.users.FindRoleByName(ctx, e.config.Account.DefaultRole)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	now := time.Now()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        []Role{*role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	resp, err := e.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditRegisterSuccess, user.ID, email, true, nil, nil)
	return resp, nil
}

// UpdatePassword verifies the current password before storing a new
// hash. When Security.RevokeSessionsOnPasswordChange is set, every
// session the user holds is revoked so stolen refresh tokens die with
// the old password.
func (e *Engine) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	user, err := e.users.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	ok, err := e.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditPasswordChangeInvalidOld, user.ID, user.Email, false, ErrInvalidCredentials, nil)
		return ErrInvalidCredentials
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := e.users.SaveUser(ctx, user); err != nil {
		return err
	}

	if e.config.Security.RevokeSessionsOnPasswordChange {
		if _, err := e.ledger.RevokeAllForUser(ctx, user.ID, time.Now()); err != nil {
			return err
		}
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditPasswordChangeSuccess, user.ID, user.Email, true, nil, nil)
	return nil
}

// Profile returns the read model for one account, including the
// projected permission union.
func (e *Engine) Profile(ctx context.Context, userID string) (*Profile, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &Profile{
		ID:            user.ID,
		Email:         user.Email,
		Roles:         permission.Names(user.Roles),
		Permissions:   permission.Project(user.Roles),
		ManagedTeamID: user.ManagedTeamID,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}, nil
}

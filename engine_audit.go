package leagueauth

import (
	"context"
	"time"
)

// Audit event names emitted by the engine.
const (
	auditLoginSuccess             = "login_success"
	auditLoginFailure             = "login_failure"
	auditAccountLocked            = "account_locked"
	auditRegisterSuccess          = "register_success"
	auditRegisterDuplicate        = "register_duplicate"
	auditRefreshSuccess           = "refresh_success"
	auditRefreshInvalid           = "refresh_invalid"
	auditRefreshExpired           = "refresh_expired"
	auditRefreshUserMismatch      = "refresh_user_mismatch"
	auditRolesChangedInvalidation = "roles_changed_invalidation"
	auditLogout                   = "logout"
	auditLogoutAll                = "logout_all"
	auditPasswordChangeSuccess    = "password_change_success"
	auditPasswordChangeInvalidOld = "password_change_invalid_old"
)

func (e *Engine) emitAudit(ctx context.Context, eventType, userID, email string, success bool, failure error, metadata map[string]string) {
	if e.audit == nil {
		return
	}

	ev := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if failure != nil {
		ev.Error = failure.Error()
	}

	e.audit.Emit(ctx, ev)
}

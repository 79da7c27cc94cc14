package leagueauth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ligastats/leagueauth/ledger"
	"github.com/ligastats/leagueauth/permission"
	"github.com/ligastats/leagueauth/token"
)

// generateTokens signs a fresh access/refresh pair for user and
// records the refresh token in the session ledger. The permission set
// baked into the access token is the deduplicated union across all of
// the user's roles.
func (e *Engine) generateTokens(ctx context.Context, user *User) (*TokenResponse, error) {
	now := time.Now()
	roleNames := permission.Names(user.Roles)

	claims := token.Claims{
		Email:         user.Email,
		Roles:         roleNames,
		Permissions:   permission.Project(user.Roles),
		ManagedTeamID: user.ManagedTeamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	}

	accessToken, err := e.tokens.SignAccess(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := e.tokens.SignRefresh(claims)
	if err != nil {
		return nil, err
	}

	rec := &ledger.Record{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(e.refreshLifetime),
		UserAgent: userAgentFromContext(ctx),
		IPAddress: clientIPFromContext(ctx),
	}
	if err := e.ledger.Create(ctx, rec); err != nil {
		return nil, err
	}

	e.metricInc(MetricTokensIssued)

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    e.accessExpiresIn,
		User: TokenUser{
			ID:    user.ID,
			Email: user.Email,
			Roles: roleNames,
		},
	}, nil
}

// Package token signs and verifies the access/refresh JWT pair. Both
// tokens carry the same base claims (subject, email, role names,
// projected permissions); refresh tokens additionally carry a fresh
// TokenID nonce so two refresh tokens minted in the same instant can
// never be byte-identical. Access and refresh tokens are signed with
// distinct HS256 secrets so one can never be presented where the other
// is expected.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ligastats/leagueauth/permission"
)

// Config holds signing material and lifetimes for both token kinds.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Claims is the signed payload carried by both tokens. The user id
// travels in the registered Subject claim.
type Claims struct {
	Email         string                  `json:"email"`
	Roles         []string                `json:"roles"`
	Permissions   []permission.Permission `json:"permissions"`
	ManagedTeamID *int64                  `json:"managedTeamId,omitempty"`
	TokenID       string                  `json:"tokenId,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses tokens. Safe for concurrent use after
// construction.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("hs256 requires access and refresh secrets")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	return &Manager{config: cfg}, nil
}

// SignAccess signs an access token with the base claims.
func (m *Manager) SignAccess(claims Claims) (string, error) {
	claims.TokenID = ""
	return m.sign(claims, m.config.AccessTTL, m.config.AccessSecret)
}

// SignRefresh signs a refresh token with a freshly generated TokenID
// nonce. JWT timestamps have second granularity, so without the nonce
// two same-instant issuances for one user would produce identical
// token strings.
func (m *Manager) SignRefresh(claims Claims) (string, error) {
	claims.TokenID = uuid.NewString()
	return m.sign(claims, m.config.RefreshTTL, m.config.RefreshSecret)
}

func (m *Manager) sign(claims Claims, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	if m.config.Issuer != "" {
		claims.RegisteredClaims.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token's signature and expiry and
// returns its claims.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// ParseRefresh verifies a refresh token's signature and expiry and
// returns its claims.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

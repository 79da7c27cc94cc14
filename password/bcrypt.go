// Package password wraps the bcrypt credential hash used for stored
// user passwords. Verification is constant-work by construction: the
// full bcrypt comparison runs for every candidate password.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost factor of the platform's existing stored
// hashes. Raising it only affects newly written hashes; Verify accepts
// hashes of any cost.
const DefaultCost = 10

const minPassBytes = 6

// ErrPasswordTooShort is returned by Hash for passwords under the
// minimum length.
var ErrPasswordTooShort = errors.New("password must be at least 6 bytes")

// Config holds bcrypt parameters.
type Config struct {
	Cost int // 0 means DefaultCost
}

// Hasher hashes and verifies passwords. Safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher validates cfg and returns a [Hasher].
func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Hasher{cost: cost}, nil
}

// Hash derives a bcrypt hash from password using the configured cost.
func (h *Hasher) Hash(password string) (string, error) {
	// Raw string bytes exactly as provided, no Unicode normalization.
	if len(password) < minPassBytes {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. A mismatch is
// (false, nil); only malformed hashes produce an error.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// NeedsUpgrade reports whether encodedHash was produced with a lower
// cost than currently configured, meaning it should be re-hashed on the
// next successful verification.
func (h *Hasher) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, err
	}
	return cost < h.cost, nil
}

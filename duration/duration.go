// Package duration parses the compact TTL notation used by the engine
// configuration: an integer followed by a single unit letter, one of
// s (seconds), m (minutes), h (hours), or d (days).
//
// The grammar is strict: no whitespace, no sign, no
// fractional values, no composite inputs like "1h30m". Configuration
// strings that do not match fail with [ErrInvalidFormat], which callers
// are expected to treat as fatal at startup.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidFormat is returned for any input that does not match the
// ^(\d+)([smhd])$ grammar.
var ErrInvalidFormat = errors.New(`invalid duration format, use number + s|m|h|d (e.g. "30s", "15m", "12h", "7d")`)

const (
	msPerSecond int64 = 1000
	msPerMinute       = 60 * msPerSecond
	msPerHour         = 60 * msPerMinute
	msPerDay          = 24 * msPerHour
)

// Parse converts a TTL string into milliseconds.
func Parse(input string) (int64, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}

	digits := input[:len(input)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
		}
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}

	switch input[len(input)-1] {
	case 's':
		return value * msPerSecond, nil
	case 'm':
		return value * msPerMinute, nil
	case 'h':
		return value * msPerHour, nil
	case 'd':
		return value * msPerDay, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, input)
}

// ParseSeconds converts a TTL string into whole seconds, truncating the
// millisecond result toward zero.
func ParseSeconds(input string) (int64, error) {
	ms, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return ms / msPerSecond, nil
}

// ParseDuration converts a TTL string into a [time.Duration].
func ParseDuration(input string) (time.Duration, error) {
	ms, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

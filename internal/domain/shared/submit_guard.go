package shared

import (
	"context"
	"time"
)

// SubmitGuard blocks duplicate voucher submissions. A submit key is
// acquired when a voucher enters the submitting state and released if
// the submit fails, returning the voucher to editing; a successful
// submit lets the key expire on its own.
type SubmitGuard interface {
	// Acquire marks a submit as in flight. Returns true if the key was
	// newly acquired, false if a submit with the same key is already
	// outstanding.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the key so a failed submit can be retried
	Release(ctx context.Context, key string) error

	// Close closes the guard and releases resources
	Close() error
}

// SubmitGuardConfig holds configuration for duplicate-submit guarding
type SubmitGuardConfig struct {
	// TTL bounds how long a submit may stay in flight before the key
	// expires on its own
	TTL time.Duration

	// Enabled determines whether the guard is active
	Enabled bool
}

// DefaultSubmitGuardConfig returns the default guard configuration
func DefaultSubmitGuardConfig() SubmitGuardConfig {
	return SubmitGuardConfig{
		TTL:     2 * time.Minute,
		Enabled: true,
	}
}

package cache

import (
	"fmt"

	"github.com/freightbooks/backend/internal/domain/shared"
	"github.com/freightbooks/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SubmitGuardFactory creates submit guards based on configuration
type SubmitGuardFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SubmitGuardFactoryOption is a functional option for configuring the factory
type SubmitGuardFactoryOption func(*SubmitGuardFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SubmitGuardFactoryOption {
	return func(f *SubmitGuardFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// guard when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) SubmitGuardFactoryOption {
	return func(f *SubmitGuardFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSubmitGuardFactory creates a new factory
func NewSubmitGuardFactory(cfg config.RedisConfig, opts ...SubmitGuardFactoryOption) *SubmitGuardFactory {
	f := &SubmitGuardFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisGuard creates a Redis-based submit guard
func (f *SubmitGuardFactory) CreateRedisGuard() (shared.SubmitGuard, error) {
	guard, err := NewRedisSubmitGuard(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis submit guard: %w", err)
	}

	return guard, nil
}

// CreateInMemoryGuard creates an in-memory submit guard. This is
// suitable for single-instance deployments and testing.
// WARNING: In-memory guards do not share state across process
// instances, so duplicate submits can slip through in distributed
// deployments.
func (f *SubmitGuardFactory) CreateInMemoryGuard() shared.SubmitGuard {
	return NewInMemorySubmitGuard()
}

// CreateGuard creates a submit guard based on whether Redis is
// available. It tries Redis first and falls back to in-memory when
// Redis is unreachable and fallback is allowed.
func (f *SubmitGuardFactory) CreateGuard() (shared.SubmitGuard, error) {
	guard, err := f.CreateRedisGuard()
	if err == nil {
		f.logger.Info("using Redis submit guard")
		return guard, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for submit guarding but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory submit guard. "+
		"Duplicate submits may slip through in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryGuard(), nil
}

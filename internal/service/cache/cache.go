package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Sweeper is implemented by caches that must drop expired entries themselves.
type Sweeper interface {
	Sweep() int
}

// Config selects and tunes the forecast response cache.
type Config struct {
	Backend string        `yaml:"backend" default:"none" validate:"oneof=none memory redis"`
	TTL     time.Duration `yaml:"ttl" default:"5m"`
	Redis   RedisConfig   `yaml:"redis"`
}

// New returns the configured cache, or nil for BackendNone.
func New(cfg Config) (BytesCache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewTTLCache(), nil
	case BackendRedis:
		return NewRedisCache(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key derives a namespaced cache key from a request body.
func Key(namespace string, body []byte) string {
	sum := sha256.Sum256(body)
	return namespace + ":" + hex.EncodeToString(sum[:])
}

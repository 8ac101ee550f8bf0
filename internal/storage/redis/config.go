package redis

import "time"

// Config holds Redis connection settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string

	// PlayerTTL expires saved players that have not been written for this
	// long. Zero keeps them forever.
	PlayerTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "wilds",
	}
}

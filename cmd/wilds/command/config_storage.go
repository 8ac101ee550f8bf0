package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/session"
	"github.com/pixil98/go-wilds/internal/storage"
	"github.com/pixil98/go-wilds/internal/storage/redis"
	"github.com/pixil98/go-wilds/internal/storage/sqlite"
)

type PlayerStoreDriver string

const (
	PlayerStoreSQLite PlayerStoreDriver = "sqlite"
	PlayerStoreRedis  PlayerStoreDriver = "redis"
)

type StorageConfig struct {
	Accounts AssetConfig[*session.Account] `json:"accounts"`
	Players  PlayerStoreConfig             `json:"players"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Accounts.Validate("accounts"))
	el.Add(c.Players.validate())
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	info, err := os.Stat(c.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}
	if err == nil && !info.IsDir() {
		return fmt.Errorf("%s: path %q is not a directory", name, c.Path)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

type PlayerStoreConfig struct {
	Driver PlayerStoreDriver `json:"driver"`

	// sqlite
	Path string `json:"path,omitempty"`

	// redis
	URL       string `json:"url,omitempty"`
	PoolSize  int    `json:"pool_size,omitempty"`
	KeyPrefix string `json:"key_prefix,omitempty"`
	TTL       string `json:"ttl,omitempty"`
}

// ClosablePlayerStore is a player store holding a connection that must be
// released on shutdown.
type ClosablePlayerStore interface {
	game.PlayerStore
	io.Closer
}

func (c *PlayerStoreConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case PlayerStoreSQLite, "":
		if c.Path == "" {
			el.Add(fmt.Errorf("players: path is required for the sqlite driver"))
		}
	case PlayerStoreRedis:
		if c.URL == "" {
			el.Add(fmt.Errorf("players: url is required for the redis driver"))
		}
		if c.PoolSize < 0 {
			el.Add(fmt.Errorf("players: pool_size must not be negative"))
		}
		if c.TTL != "" {
			if _, err := time.ParseDuration(c.TTL); err != nil {
				el.Add(fmt.Errorf("players: parsing ttl: %w", err))
			}
		}
	default:
		el.Add(fmt.Errorf("players: unknown driver %q", c.Driver))
	}

	return el.Err()
}

func (c *PlayerStoreConfig) BuildPlayerStore(ctx context.Context) (ClosablePlayerStore, error) {
	switch c.Driver {
	case PlayerStoreSQLite, "":
		return sqlite.Open(c.Path)

	case PlayerStoreRedis:
		cfg := redis.DefaultConfig()
		cfg.URL = c.URL
		if c.PoolSize > 0 {
			cfg.PoolSize = c.PoolSize
		}
		if c.KeyPrefix != "" {
			cfg.KeyPrefix = c.KeyPrefix
		}
		if c.TTL != "" {
			d, err := time.ParseDuration(c.TTL)
			if err != nil {
				return nil, fmt.Errorf("parsing ttl: %w", err)
			}
			cfg.PlayerTTL = d
		}
		return redis.New(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown player store driver %q", c.Driver)
	}
}

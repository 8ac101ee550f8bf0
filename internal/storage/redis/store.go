package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixil98/go-wilds/internal/game"
)

// PlayerStore keeps player data as JSON values in Redis.
type PlayerStore struct {
	client *redis.Client
	cfg    Config
}

var _ game.PlayerStore = (*PlayerStore)(nil)

// New connects to the server at cfg.URL and verifies it responds.
func New(ctx context.Context, cfg Config) (*PlayerStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, cfg Config) *PlayerStore {
	return &PlayerStore{
		client: client,
		cfg:    cfg,
	}
}

func (s *PlayerStore) Close() error {
	return s.client.Close()
}

func (s *PlayerStore) playerKey(id string) string {
	return fmt.Sprintf("%s:player:%s", s.cfg.KeyPrefix, id)
}

func (s *PlayerStore) LoadPlayer(ctx context.Context, playerID string) (*game.PlayerData, error) {
	b, err := s.client.Get(ctx, s.playerKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, game.ErrNoPlayerData
	}
	if err != nil {
		return nil, fmt.Errorf("getting player %s: %w", playerID, err)
	}

	var d game.PlayerData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decoding player %s: %w", playerID, err)
	}
	return &d, nil
}

func (s *PlayerStore) SavePlayer(ctx context.Context, playerID string, data *game.PlayerData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding player %s: %w", playerID, err)
	}

	if err := s.client.Set(ctx, s.playerKey(playerID), b, s.cfg.PlayerTTL).Err(); err != nil {
		return fmt.Errorf("writing player %s: %w", playerID, err)
	}
	return nil
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/skills"
)

type PlayerStoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *PlayerStore
	ctx   context.Context
}

func TestPlayerStoreSuite(t *testing.T) {
	suite.Run(t, new(PlayerStoreSuite))
}

func (s *PlayerStoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour

	s.store = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *PlayerStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func sampleData() *game.PlayerData {
	return &game.PlayerData{
		Vitals:    game.Vitals{Health: 70, MaxHealth: 100, Stamina: 12, MaxStamina: 100, Hunger: 40, MaxHunger: 100, Thirst: 30, MaxThirst: 100},
		Effects:   []string{"thirsty"},
		Inventory: map[string]game.Item{"berries": {Count: 9, Weight: 0.1}},
		Skills:    map[skills.Skill]float64{skills.Foraging: 20.5},
		SavedAt:   time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func (s *PlayerStoreSuite) TestSaveAndLoad() {
	want := sampleData()
	s.Require().NoError(s.store.SavePlayer(s.ctx, "wren", want))

	got, err := s.store.LoadPlayer(s.ctx, "wren")
	s.Require().NoError(err)
	s.Equal(want.Vitals, got.Vitals)
	s.Equal(want.Effects, got.Effects)
	s.Equal(want.Inventory, got.Inventory)
	s.Equal(want.Skills, got.Skills)
	s.True(want.SavedAt.Equal(got.SavedAt))
}

func (s *PlayerStoreSuite) TestLoadMissing() {
	_, err := s.store.LoadPlayer(s.ctx, "nobody")
	s.ErrorIs(err, game.ErrNoPlayerData)
}

func (s *PlayerStoreSuite) TestKeyLayout() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, "wren", sampleData()))

	s.True(s.mini.Exists("wilds:player:wren"))
	s.Equal([]string{"wilds:player:wren"}, s.mini.Keys())
}

func (s *PlayerStoreSuite) TestTTLApplied() {
	s.Require().NoError(s.store.SavePlayer(s.ctx, "wren", sampleData()))
	s.Equal(time.Hour, s.mini.TTL("wilds:player:wren"))

	s.mini.FastForward(2 * time.Hour)
	_, err := s.store.LoadPlayer(s.ctx, "wren")
	s.ErrorIs(err, game.ErrNoPlayerData)
}

func (s *PlayerStoreSuite) TestCorruptValue() {
	s.Require().NoError(s.mini.Set("wilds:player:wren", "{not json"))

	_, err := s.store.LoadPlayer(s.ctx, "wren")
	s.Require().Error(err)
	s.Contains(err.Error(), "decoding player wren")
}

func (s *PlayerStoreSuite) TestServerDown() {
	s.mini.Close()

	err := s.store.SavePlayer(s.ctx, "wren", sampleData())
	s.Require().Error(err)
	s.Contains(err.Error(), "writing player wren")
	s.mini = nil
}

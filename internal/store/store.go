// Package store persists the per-player state the pull engine treats
// as externally owned: pity counters per (player, banner) and the
// owned-item set per player.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/studioforge/gacha-engine/internal/gacha"
)

// Store keeps player pull state in Redis.
type Store struct {
	rdb *redis.Client
}

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// New creates a store; call Ping to verify the connection.
func New(opts Options) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

func pityKey(game, player, banner string) string {
	return fmt.Sprintf("pity:%s:%s:%s", game, player, banner)
}

func ownedKey(game, player string) string {
	return fmt.Sprintf("owned:%s:%s", game, player)
}

// Pity returns the pity counter for a (player, banner) pair. A player
// who never pulled has pity 0, not an error.
func (s *Store) Pity(ctx context.Context, game, player, banner string) (int, error) {
	v, err := s.rdb.Get(ctx, pityKey(game, player, banner)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get pity: %w", err)
	}
	if v < 0 {
		v = 0
	}
	return v, nil
}

// SetPity stores a pity counter.
func (s *Store) SetPity(ctx context.Context, game, player, banner string, pity int) error {
	if err := s.rdb.Set(ctx, pityKey(game, player, banner), pity, 0).Err(); err != nil {
		return fmt.Errorf("set pity: %w", err)
	}
	return nil
}

// Owned returns the player's owned-item set. Empty is a valid steady
// state, not an error.
func (s *Store) Owned(ctx context.Context, game, player string) (gacha.OwnedSet, error) {
	ids, err := s.rdb.SMembers(ctx, ownedKey(game, player)).Result()
	if err != nil {
		return nil, fmt.Errorf("get owned set: %w", err)
	}
	return gacha.NewOwnedSet(ids...), nil
}

// AddOwned records item ownership.
func (s *Store) AddOwned(ctx context.Context, game, player, itemID string) error {
	if err := s.rdb.SAdd(ctx, ownedKey(game, player), itemID).Err(); err != nil {
		return fmt.Errorf("add owned item: %w", err)
	}
	return nil
}

// RecordPull persists one resolved pull atomically: the new pity
// counter and the awarded item in one round trip.
func (s *Store) RecordPull(ctx context.Context, game, player, banner, itemID string, newPity int) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, pityKey(game, player, banner), newPity, 0)
	pipe.SAdd(ctx, ownedKey(game, player), itemID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record pull: %w", err)
	}
	return nil
}

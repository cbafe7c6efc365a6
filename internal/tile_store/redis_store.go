package tile_store

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"atontiles/internal/mercator"
)

// createdAtPrefixLen is the width of the big-endian unix-milli
// timestamp prepended to each stored payload.
const createdAtPrefixLen = 8

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps tiles in redis with the same freshness and ETag
// semantics as the file backend. Each payload carries a created-at
// prefix; the key TTL additionally makes stale entries disappear on
// their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(cfg RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *RedisStore) keyFor(addr mercator.TileAddress) string {
	return fmt.Sprintf("aton_tiles:%d:%d:%d", addr.Zoom, addr.X, addr.Y)
}

func (s *RedisStore) Get(addr mercator.TileAddress) (*RenderedTile, bool) {
	payload, err := s.client.Get(context.Background(), s.keyFor(addr)).Bytes()
	if err != nil || len(payload) <= createdAtPrefixLen {
		return nil, false
	}

	createdAt := time.UnixMilli(int64(binary.BigEndian.Uint64(payload[:createdAtPrefixLen])))
	if s.now().Sub(createdAt) >= s.ttl {
		return nil, false
	}

	return &RenderedTile{Address: addr, Data: payload[createdAtPrefixLen:], CreatedAt: createdAt}, true
}

func (s *RedisStore) Put(addr mercator.TileAddress, data []byte) (*RenderedTile, error) {
	createdAt := s.now()

	payload := make([]byte, createdAtPrefixLen+len(data))
	binary.BigEndian.PutUint64(payload, uint64(createdAt.UnixMilli()))
	copy(payload[createdAtPrefixLen:], data)

	if err := s.client.Set(context.Background(), s.keyFor(addr), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set error: %w", err)
	}

	return &RenderedTile{Address: addr, Data: data, CreatedAt: createdAt}, nil
}

func (s *RedisStore) EnsureBlank(data []byte) error {
	// No expiry: the blank tile's bytes never change.
	key := "aton_tiles:" + BlankTileName
	if err := s.client.SetNX(context.Background(), key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx error: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

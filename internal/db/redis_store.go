// internal/db/redis_store.go

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore 每个房间一个 JSON 值，键为 {table}:{partition}:{room}
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(addr, password string, db int, table string) *RedisStore {
	return newRedisStore(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), table)
}

func newRedisStore(client *redis.Client, table string) *RedisStore {
	return &RedisStore{client: client, prefix: table}
}

func (s *RedisStore) key(partitionKey, roomID string) string {
	return s.prefix + ":" + partitionKey + ":" + roomID
}

// EnsureTable redis 无需建表，只检查连接
func (s *RedisStore) EnsureTable(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error) {
	raw, err := s.client.Get(ctx, s.key(partitionKey, roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	var room RoomConfig
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *RedisStore) Insert(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(room.PartitionKey, room.RoomID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrRoomExists
	}
	return nil
}

func (s *RedisStore) Replace(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, s.key(room.PartitionKey, room.RoomID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrRoomNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

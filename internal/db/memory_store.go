// internal/db/memory_store.go

package db

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore 进程内存储，重启后数据丢失
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func memoryKey(partitionKey, roomID string) string {
	return partitionKey + "/" + roomID
}

func (s *MemoryStore) EnsureTable(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error) {
	v, ok := s.cache.Get(memoryKey(partitionKey, roomID))
	if !ok {
		return nil, ErrRoomNotFound
	}
	room := v.(RoomConfig)
	return &room, nil
}

// Insert 存值拷贝，调用方后续修改不会影响已存数据
func (s *MemoryStore) Insert(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	if err := s.cache.Add(memoryKey(room.PartitionKey, room.RoomID), *room, cache.NoExpiration); err != nil {
		return ErrRoomExists
	}
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	if err := s.cache.Replace(memoryKey(room.PartitionKey, room.RoomID), *room, cache.NoExpiration); err != nil {
		return ErrRoomNotFound
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

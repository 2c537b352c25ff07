// internal/db/store.go

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"virtualroom/internal/config"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// RoomStore 房间配置的键值存储
type RoomStore interface {
	// EnsureTable 幂等地创建存储表
	EnsureTable(ctx context.Context) error
	// Get 房间不存在时返回 ErrRoomNotFound
	Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error)
	// Insert 房间已存在时返回 ErrRoomExists
	Insert(ctx context.Context, room *RoomConfig) error
	// Replace 房间不存在时返回 ErrRoomNotFound
	Replace(ctx context.Context, room *RoomConfig) error
	Close() error
}

// Open 根据配置创建存储
func Open(cfg config.StoreConfig) (RoomStore, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLiteStore(cfg.SQLitePath, cfg.Table)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres store")
		}
		return NewPostgresStore(cfg.PostgresDSN, cfg.Table)
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Table), nil
	case "bolt":
		return NewBoltStore(cfg.BoltPath, cfg.Table)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// now 截断到微秒，与 postgres TIMESTAMPTZ 的精度一致，各后端读回的时间戳相同
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

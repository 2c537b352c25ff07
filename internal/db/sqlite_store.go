// internal/db/sqlite_store.go

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteStore 基于 gorm + sqlite 的房间存储
type SQLiteStore struct {
	db    *gorm.DB
	table string
}

func NewSQLiteStore(path, table string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get db: %w", err)
	}
	// sqlite 同一时间只允许一个写连接
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &SQLiteStore{db: db, table: table}, nil
}

func (s *SQLiteStore) EnsureTable(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&RoomConfig{}); err != nil {
		return fmt.Errorf("failed to migrate table %s: %w", s.table, err)
	}
	return nil
}

// Get 通过分区和房间号获取房间配置
func (s *SQLiteStore) Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error) {
	var room RoomConfig
	err := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ? AND room_id = ?", partitionKey, roomID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(s.table).
			Where("partition_key = ? AND room_id = ?", room.PartitionKey, room.RoomID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRoomExists
		}
		return tx.Table(s.table).Create(room).Error
	})
}

// Replace 整条覆盖房间配置
func (s *SQLiteStore) Replace(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	result := s.db.WithContext(ctx).Table(s.table).
		Where("partition_key = ? AND room_id = ?", room.PartitionKey, room.RoomID).
		Updates(map[string]interface{}{
			"lights_room":     room.LightsRoom,
			"lights_bathroom": room.LightsBathroom,
			"television":      room.Television,
			"blinds":          room.Blinds,
			"ac":              room.AC,
			"temperature":     room.Temperature,
			"message":         room.Message,
			"updated_at":      room.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room %s: %w", room.RoomID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// internal/service/room_service.go

package service

import (
	"context"
	"errors"
	"time"

	"virtualroom/internal/db"
	"virtualroom/internal/events"
	"virtualroom/internal/logger"
	"virtualroom/internal/types"
)

// RoomService 读取或创建房间配置，执行至多一个指令并写回
type RoomService struct {
	store     db.RoomStore
	bus       *events.EventBus
	partition string
}

// NewRoomService bus 可以为 nil
func NewRoomService(store db.RoomStore, bus *events.EventBus, partition string) *RoomService {
	return &RoomService{
		store:     store,
		bus:       bus,
		partition: partition,
	}
}

// Process 处理一个房间的请求，返回处理后的房间配置
func (s *RoomService) Process(ctx context.Context, roomID string, cmd types.Command) (*db.RoomConfig, error) {
	if roomID == "" {
		return nil, ErrMissingRoom
	}

	if err := s.store.EnsureTable(ctx); err != nil {
		return nil, stageError(StageEnsureTable, roomID, err)
	}

	room, err := s.loadOrCreate(ctx, roomID)
	if err != nil {
		return nil, err
	}

	updated, err := applyCommand(room, cmd)
	if err != nil {
		return nil, stageError(StageTransition, roomID, err)
	}

	if updated {
		if err := s.store.Replace(ctx, room); err != nil {
			return nil, stageError(StagePersist, roomID, err)
		}
		logger.Info("successfully updated room %s (%s)", roomID, cmd.Operation)
		s.publish(events.EventRoomStateChange, room, cmd.Operation)
		if cmd.Operation == types.OperationReset {
			s.publish(events.EventRoomReset, room, cmd.Operation)
		}
	}

	return room, nil
}

// loadOrCreate 房间不存在时写入默认配置再重新读取，保证返回的就是存储中的数据
func (s *RoomService) loadOrCreate(ctx context.Context, roomID string) (*db.RoomConfig, error) {
	room, err := s.store.Get(ctx, s.partition, roomID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, db.ErrRoomNotFound) {
		return nil, stageError(StageLookup, roomID, err)
	}

	// 并发请求可能已经创建了同一个房间，此时直接重新读取
	inserted := true
	if err := s.store.Insert(ctx, db.NewRoomConfig(s.partition, roomID)); err != nil {
		if !errors.Is(err, db.ErrRoomExists) {
			return nil, stageError(StageCreate, roomID, err)
		}
		inserted = false
	}

	room, err = s.store.Get(ctx, s.partition, roomID)
	if err != nil {
		return nil, stageError(StageLookup, roomID, err)
	}
	if inserted {
		logger.Debug("created room %s with default config", roomID)
		s.publish(events.EventRoomCreated, room, "")
	}
	return room, nil
}

func (s *RoomService) publish(eventType events.EventType, room *db.RoomConfig, operation string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:      eventType,
		RoomID:    room.RoomID,
		Timestamp: time.Now(),
		Data: events.RoomStateEventData{
			PartitionKey:   room.PartitionKey,
			RoomID:         room.RoomID,
			Operation:      operation,
			LightsRoom:     room.LightsRoom,
			LightsBathroom: room.LightsBathroom,
			Television:     room.Television,
			Blinds:         room.Blinds,
			AC:             room.AC,
			Temperature:    room.Temperature,
			Message:        room.Message,
		},
	})
}

// Ping 检查存储是否可用
func (s *RoomService) Ping(ctx context.Context) error {
	return s.store.EnsureTable(ctx)
}

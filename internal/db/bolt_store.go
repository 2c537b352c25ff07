// internal/db/bolt_store.go

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

// BoltStore 表对应顶层 bucket，分区对应子 bucket，房间号为键
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltStore(path, table string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	return &BoltStore{db: db, bucket: []byte(table)}, nil
}

func (s *BoltStore) EnsureTable(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
}

func (s *BoltStore) table(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket(s.bucket)
	if b == nil {
		return nil, fmt.Errorf("table %s does not exist", s.bucket)
	}
	return b, nil
}

func (s *BoltStore) Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error) {
	var room RoomConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := s.table(tx)
		if err != nil {
			return err
		}
		pb := b.Bucket([]byte(partitionKey))
		if pb == nil {
			return ErrRoomNotFound
		}
		v := pb.Get([]byte(roomID))
		if v == nil {
			return ErrRoomNotFound
		}
		return json.Unmarshal(v, &room)
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *BoltStore) Insert(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.table(tx)
		if err != nil {
			return err
		}
		pb, err := b.CreateBucketIfNotExists([]byte(room.PartitionKey))
		if err != nil {
			return err
		}
		if pb.Get([]byte(room.RoomID)) != nil {
			return ErrRoomExists
		}
		return pb.Put([]byte(room.RoomID), data)
	})
}

func (s *BoltStore) Replace(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := s.table(tx)
		if err != nil {
			return err
		}
		pb := b.Bucket([]byte(room.PartitionKey))
		if pb == nil || pb.Get([]byte(room.RoomID)) == nil {
			return ErrRoomNotFound
		}
		return pb.Put([]byte(room.RoomID), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// internal/db/postgres_store.go

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// PostgresStore 基于 lib/pq 的房间存储
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return newPostgresStore(db, table), nil
}

func newPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		partition_key VARCHAR(64) NOT NULL,
		room_id VARCHAR(255) NOT NULL,
		lights_room BOOLEAN NOT NULL DEFAULT FALSE,
		lights_bathroom BOOLEAN NOT NULL DEFAULT FALSE,
		television BOOLEAN NOT NULL DEFAULT FALSE,
		blinds BOOLEAN NOT NULL DEFAULT TRUE,
		ac BOOLEAN NOT NULL DEFAULT FALSE,
		temperature INTEGER NOT NULL DEFAULT 70,
		message TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (partition_key, room_id)
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, partitionKey, roomID string) (*RoomConfig, error) {
	query := fmt.Sprintf(`SELECT partition_key, room_id, lights_room, lights_bathroom, television, blinds, ac, temperature, message, updated_at
		FROM %s WHERE partition_key = $1 AND room_id = $2`, s.table)

	var room RoomConfig
	err := s.db.QueryRowContext(ctx, query, partitionKey, roomID).Scan(
		&room.PartitionKey,
		&room.RoomID,
		&room.LightsRoom,
		&room.LightsBathroom,
		&room.Television,
		&room.Blinds,
		&room.AC,
		&room.Temperature,
		&room.Message,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to query room %s: %w", roomID, err)
	}
	return &room, nil
}

func (s *PostgresStore) Insert(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	query := fmt.Sprintf(`INSERT INTO %s (partition_key, room_id, lights_room, lights_bathroom, television, blinds, ac, temperature, message, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, s.table)

	_, err := s.db.ExecContext(ctx, query,
		room.PartitionKey, room.RoomID,
		room.LightsRoom, room.LightsBathroom, room.Television, room.Blinds, room.AC,
		room.Temperature, room.Message, room.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrRoomExists
		}
		return fmt.Errorf("failed to insert room %s: %w", room.RoomID, err)
	}
	return nil
}

func (s *PostgresStore) Replace(ctx context.Context, room *RoomConfig) error {
	room.UpdatedAt = now()
	query := fmt.Sprintf(`UPDATE %s SET lights_room = $3, lights_bathroom = $4, television = $5, blinds = $6, ac = $7, temperature = $8, message = $9, updated_at = $10
		WHERE partition_key = $1 AND room_id = $2`, s.table)

	result, err := s.db.ExecContext(ctx, query,
		room.PartitionKey, room.RoomID,
		room.LightsRoom, room.LightsBathroom, room.Television, room.Blinds, room.AC,
		room.Temperature, room.Message, room.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", room.RoomID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

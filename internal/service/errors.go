package service

import (
	"errors"
	"fmt"
)

// ErrMissingRoom 请求中没有房间号
var ErrMissingRoom = errors.New("missing room identifier")

// 处理阶段
const (
	StageEnsureTable = "ensure table"
	StageLookup      = "lookup"
	StageCreate      = "create"
	StageTransition  = "transition"
	StagePersist     = "persist"
)

// ProcessingError 处理请求过程中某个阶段失败
type ProcessingError struct {
	Stage  string
	RoomID string
	Err    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed for room %s: %v", e.Stage, e.RoomID, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func stageError(stage, roomID string, err error) error {
	return &ProcessingError{Stage: stage, RoomID: roomID, Err: err}
}

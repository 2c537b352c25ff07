// internal/service/transitions.go

package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"virtualroom/internal/db"
	"virtualroom/internal/types"
)

// transition 对房间配置执行一次修改，返回是否真正修改
type transition func(room *db.RoomConfig, cmd types.Command) (bool, error)

// anyField 匹配任意 item/instance
const anyField = "*"

type transitionKey struct {
	operation string
	item      string
	instance  string
}

var transitions = map[transitionKey]transition{
	{types.OperationReset, anyField, anyField}: resetRoom,

	{types.OperationTurn, types.ItemLights, types.InstanceAll}: turn(func(r *db.RoomConfig, on bool) {
		r.LightsRoom = on
		r.LightsBathroom = on
	}, prefixed("All lights ")),
	{types.OperationTurn, types.ItemLights, types.InstanceRoom}: turn(func(r *db.RoomConfig, on bool) {
		r.LightsRoom = on
	}, prefixed("room light ")),
	{types.OperationTurn, types.ItemLights, types.InstanceBathroom}: turn(func(r *db.RoomConfig, on bool) {
		r.LightsBathroom = on
	}, prefixed("bathroom light ")),
	{types.OperationTurn, types.ItemTV, anyField}: turn(func(r *db.RoomConfig, on bool) {
		r.Television = on
	}, prefixed("TV ")),
	{types.OperationTurn, types.ItemBlinds, anyField}: turn(func(r *db.RoomConfig, on bool) {
		r.Blinds = on
	}, func(_ string, on bool) string {
		if on {
			return "blinds opened"
		}
		return "blinds closed"
	}),
	{types.OperationTurn, types.ItemAC, anyField}: turn(func(r *db.RoomConfig, on bool) {
		r.AC = on
	}, prefixed("AC ")),

	{types.OperationSetTemperature, anyField, anyField}: temperature(func(_, v int64) int64 {
		return v
	}, "set temperature to %s"),
	{types.OperationIncreaseTemperature, anyField, anyField}: temperature(func(cur, v int64) int64 {
		return cur + v
	}, "raised temperature by %s degrees"),
	{types.OperationDecreaseTemperature, anyField, anyField}: temperature(func(cur, v int64) int64 {
		return cur - v
	}, "decreased temperature by %s degrees"),
}

// lookupTransition 依次尝试精确匹配、忽略 instance、忽略 item 和 instance
func lookupTransition(cmd types.Command) (transition, bool) {
	keys := []transitionKey{
		{cmd.Operation, cmd.Item, cmd.Instance},
		{cmd.Operation, cmd.Item, anyField},
		{cmd.Operation, anyField, anyField},
	}
	for _, k := range keys {
		if t, ok := transitions[k]; ok {
			return t, true
		}
	}
	return nil, false
}

// applyCommand 执行指令，未识别的指令不修改房间
func applyCommand(room *db.RoomConfig, cmd types.Command) (bool, error) {
	if cmd.Empty() {
		return false, nil
	}
	t, ok := lookupTransition(cmd)
	if !ok {
		return false, nil
	}
	return t(room, cmd)
}

func resetRoom(room *db.RoomConfig, _ types.Command) (bool, error) {
	room.ResetToDefaults()
	return true, nil
}

func prefixed(prefix string) func(string, bool) string {
	return func(value string, _ bool) string {
		return prefix + value
	}
}

// turn value 无法解析为开关时静默忽略
func turn(set func(*db.RoomConfig, bool), message func(value string, on bool) string) transition {
	return func(room *db.RoomConfig, cmd types.Command) (bool, error) {
		on, ok := cmd.Switch()
		if !ok {
			return false, nil
		}
		set(room, on)
		room.Message = message(cmd.Value, on)
		return true, nil
	}
}

// temperature value 不是 32 位整数时返回错误，结果限制在 int32 范围内，所有存储后端都能保存
func temperature(apply func(current, value int64) int64, format string) transition {
	return func(room *db.RoomConfig, cmd types.Command) (bool, error) {
		v, err := strconv.ParseInt(strings.TrimSpace(cmd.RawValue), 10, 32)
		if err != nil {
			return false, fmt.Errorf("invalid temperature value %q: %w", cmd.RawValue, err)
		}
		room.Temperature = clampInt32(apply(int64(room.Temperature), v))
		room.Message = fmt.Sprintf(format, cmd.RawValue)
		return true, nil
	}
}

func clampInt32(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

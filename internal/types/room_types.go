// internal/types/room_types.go

package types

import "strings"

// 顶层操作
const (
	OperationReset               = "reset"
	OperationTurn                = "turn"
	OperationSetTemperature      = "settemperature"
	OperationIncreaseTemperature = "increasetemperature"
	OperationDecreaseTemperature = "decreasetemperature"
)

// turn 操作的设备
const (
	ItemLights = "lights"
	ItemTV     = "tv"
	ItemBlinds = "blinds"
	ItemAC     = "ac"
)

// 灯光位置
const (
	InstanceAll      = "all"
	InstanceRoom     = "room"
	InstanceBathroom = "bathroom"
)

// Command 一次请求携带的指令，Operation/Item/Instance/Value 均已转为小写
type Command struct {
	Operation string
	Item      string
	Instance  string
	Value     string
	RawValue  string // 原始 value，温度类操作使用
}

func NewCommand(operation, item, instance, value string) Command {
	return Command{
		Operation: strings.ToLower(operation),
		Item:      strings.ToLower(item),
		Instance:  strings.ToLower(instance),
		Value:     strings.ToLower(value),
		RawValue:  value,
	}
}

// Empty 没有指定操作
func (c Command) Empty() bool {
	return c.Operation == ""
}

// Switch 将 value 解析为开关状态，on/open 为开，off/close 为关
func (c Command) Switch() (on bool, ok bool) {
	switch c.Value {
	case "on", "open":
		return true, true
	case "off", "close":
		return false, true
	}
	return false, false
}

package events

import "time"

// EventType 事件类型定义
type EventType int

const (
	// 系统事件
	EventSystemStartup EventType = iota
	EventSystemShutdown

	// 房间状态事件
	EventRoomCreated
	EventRoomStateChange
	EventRoomReset
)

// Event 事件结构
type Event struct {
	Type      EventType   `json:"type"`
	Seq       uint64      `json:"seq"` // 发布顺序，由 EventBus 分配
	RoomID    string      `json:"room_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Handler 事件处理函数类型
type Handler func(Event)

// Subscription 事件订阅信息
type Subscription struct {
	EventType EventType
	id        int
}

// RoomStateEventData 房间状态变化时携带的数据
type RoomStateEventData struct {
	PartitionKey   string `json:"partition_key"`
	RoomID         string `json:"room_id"`
	Operation      string `json:"operation,omitempty"`
	LightsRoom     bool   `json:"lights_room"`
	LightsBathroom bool   `json:"lights_bathroom"`
	Television     bool   `json:"television"`
	Blinds         bool   `json:"blinds"`
	AC             bool   `json:"ac"`
	Temperature    int    `json:"temperature"`
	Message        string `json:"message"`
}

// EventNames 提供事件类型的字符串表示
var EventNames = map[EventType]string{
	EventSystemStartup:   "SystemStartup",
	EventSystemShutdown:  "SystemShutdown",
	EventRoomCreated:     "RoomCreated",
	EventRoomStateChange: "RoomStateChange",
	EventRoomReset:       "RoomReset",
}

func (t EventType) String() string {
	if name, ok := EventNames[t]; ok {
		return name
	}
	return "Unknown"
}

package db

import "time"

const (
	DefaultBlinds      = true
	DefaultTemperature = 70
)

// RoomConfig 虚拟房间配置，PartitionKey+RoomID 唯一确定一条记录
type RoomConfig struct {
	PartitionKey   string    `gorm:"primaryKey;type:varchar(64)" json:"partition_key"`
	RoomID         string    `gorm:"primaryKey;type:varchar(255)" json:"room_id"`
	LightsRoom     bool      `json:"lights_room"`
	LightsBathroom bool      `json:"lights_bathroom"`
	Television     bool      `json:"television"`
	Blinds         bool      `json:"blinds"`
	AC             bool      `gorm:"column:ac" json:"ac"`
	Temperature    int       `json:"temperature"`
	Message        string    `gorm:"type:varchar(255)" json:"message"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"timestamp"`
}

// NewRoomConfig 使用默认配置创建房间
func NewRoomConfig(partitionKey, roomID string) *RoomConfig {
	cfg := &RoomConfig{
		PartitionKey: partitionKey,
		RoomID:       roomID,
	}
	cfg.ResetToDefaults()
	return cfg
}

// ResetToDefaults 恢复默认配置，不修改标识字段
func (c *RoomConfig) ResetToDefaults() {
	c.LightsRoom = false
	c.LightsBathroom = false
	c.Television = false
	c.Blinds = DefaultBlinds
	c.AC = false
	c.Temperature = DefaultTemperature
	c.Message = ""
}

// SameState 比较除时间戳以外的所有字段
func (c RoomConfig) SameState(other RoomConfig) bool {
	c.UpdatedAt = time.Time{}
	other.UpdatedAt = time.Time{}
	return c == other
}

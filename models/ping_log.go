package models

import "time"

// PingLog 心跳台账, 仅追加; 健康度与停机估算都只读这张表
type PingLog struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	DoorID uint      `gorm:"not null;index:idx_ping_door_at" json:"door_id"`
	Door   *Door     `gorm:"foreignKey:DoorID" json:"door,omitempty"`
	PingAt time.Time `gorm:"not null;index:idx_ping_door_at" json:"ping_at"`
}

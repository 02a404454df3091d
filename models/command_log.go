package models

import "time"

// CommandLog 指令台账, 每次下发一条; ack_at一旦写入不再覆盖
type CommandLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DoorID      uint       `gorm:"not null;index" json:"door_id"`
	Door        *Door      `gorm:"foreignKey:DoorID" json:"door,omitempty"`
	Action      string     `gorm:"type:varchar(50);not null" json:"action"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	AckAt       *time.Time `json:"ack_at"`
	LatencyMs   *int       `json:"latency_ms"` // 确认时一次性计算: ack_at - requested_at
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

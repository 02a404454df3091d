package models

import "time"

// Schedule 按(门, 日期)唯一的开关窗口; upsert时清空两个sent标记使其可重新触发
type Schedule struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	DoorID       uint       `gorm:"not null;uniqueIndex:uniq_schedule_door_date" json:"door_id"`
	Door         *Door      `gorm:"foreignKey:DoorID" json:"door,omitempty"`
	ScheduleDate string     `gorm:"type:varchar(10);not null;uniqueIndex:uniq_schedule_door_date" json:"schedule_date"` // YYYY-MM-DD
	OpenTime     string     `gorm:"type:varchar(5);not null" json:"open_time"`                                          // HH:MM
	CloseTime    string     `gorm:"type:varchar(5);not null" json:"close_time"`                                         // HH:MM
	Enabled      bool       `gorm:"default:true" json:"enabled"`
	OpenSentAt   *time.Time `json:"open_sent_at"`
	CloseSentAt  *time.Time `json:"close_sent_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

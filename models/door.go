package models

import "time"

// Door 房门, 归属唯一楼层; 芯片绑定可以为空, 未绑定的门无法接收指令
type Door struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Floor     int       `gorm:"not null;index" json:"floor"`
	RoomNo    string    `gorm:"type:varchar(20);not null" json:"room_no"`
	ChipID    *uint     `gorm:"index" json:"chip_id"`
	Chip      *Chip     `gorm:"foreignKey:ChipID" json:"chip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

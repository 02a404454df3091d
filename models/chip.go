package models

import "time"

// Chip 门锁主控芯片, MAC地址是跨通道关联设备的唯一硬件标识
type Chip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChipNo    string    `gorm:"type:varchar(50);unique;not null" json:"chip_no"`
	MAC       string    `gorm:"column:mac;type:varchar(50);unique;not null" json:"mac"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package services

import (
	"errors"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	"gorm.io/gorm"
)

// InterfaceDoorService defines the door service interface
type InterfaceDoorService interface {
	GetAllDoors() ([]models.Door, error)
	GetDoorByID(id uint) (*models.Door, error)
	CreateDoor(door *models.Door) error
	UpdateDoor(id uint, updates map[string]interface{}) (*models.Door, error)
	DeleteDoor(id uint) error
}

// DoorService 提供门相关的服务
type DoorService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDoorService 创建一个新的门服务
func NewDoorService(db *gorm.DB, cfg *config.Config) InterfaceDoorService {
	return &DoorService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllDoors 获取所有门列表, 按楼层+房号排序
func (s *DoorService) GetAllDoors() ([]models.Door, error) {
	var doors []models.Door
	if err := s.DB.Preload("Chip").Order("floor, room_no").Find(&doors).Error; err != nil {
		return nil, err
	}
	return doors, nil
}

// GetDoorByID 根据ID获取门
func (s *DoorService) GetDoorByID(id uint) (*models.Door, error) {
	var door models.Door
	if err := s.DB.Preload("Chip").First(&door, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoorNotFound
		}
		return nil, err
	}
	return &door, nil
}

// CreateDoor 创建新门
func (s *DoorService) CreateDoor(door *models.Door) error {
	if err := s.validateChipBinding(door.ChipID); err != nil {
		return err
	}
	return s.DB.Create(door).Error
}

// UpdateDoor 更新门信息
func (s *DoorService) UpdateDoor(id uint, updates map[string]interface{}) (*models.Door, error) {
	door, err := s.GetDoorByID(id)
	if err != nil {
		return nil, err
	}

	if chipID, ok := updates["chip_id"].(*uint); ok {
		if err := s.validateChipBinding(chipID); err != nil {
			return nil, err
		}
	}

	if err := s.DB.Model(door).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的门信息
	return s.GetDoorByID(id)
}

// DeleteDoor 删除门
func (s *DoorService) DeleteDoor(id uint) error {
	door, err := s.GetDoorByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(door).Error
}

// validateChipBinding 绑定非空时校验芯片存在
func (s *DoorService) validateChipBinding(chipID *uint) error {
	if chipID == nil {
		return nil
	}
	var count int64
	if err := s.DB.Model(&models.Chip{}).Where("id = ?", *chipID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("绑定的芯片不存在")
	}
	return nil
}

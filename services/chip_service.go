package services

import (
	"errors"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	"gorm.io/gorm"
)

// InterfaceChipService defines the chip service interface
type InterfaceChipService interface {
	GetAllChips() ([]models.Chip, error)
	GetChipByID(id uint) (*models.Chip, error)
	CreateChip(chip *models.Chip) error
	DeleteChip(id uint) error
}

// ChipService 提供芯片(设备注册表)相关的服务
type ChipService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewChipService 创建一个新的芯片服务
func NewChipService(db *gorm.DB, cfg *config.Config) InterfaceChipService {
	return &ChipService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllChips 获取所有芯片列表
func (s *ChipService) GetAllChips() ([]models.Chip, error) {
	var chips []models.Chip
	if err := s.DB.Order("chip_no").Find(&chips).Error; err != nil {
		return nil, err
	}
	return chips, nil
}

// GetChipByID 根据ID获取芯片
func (s *ChipService) GetChipByID(id uint) (*models.Chip, error) {
	var chip models.Chip
	if err := s.DB.First(&chip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("芯片不存在")
		}
		return nil, err
	}
	return &chip, nil
}

// CreateChip 创建新芯片
func (s *ChipService) CreateChip(chip *models.Chip) error {
	// 验证MAC唯一性
	var count int64
	if err := s.DB.Model(&models.Chip{}).Where("mac = ?", chip.MAC).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("MAC地址已存在")
	}

	return s.DB.Create(chip).Error
}

// DeleteChip 删除芯片
func (s *ChipService) DeleteChip(id uint) error {
	return s.DB.Delete(&models.Chip{}, id).Error
}

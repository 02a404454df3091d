package services

import (
	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"

	"gorm.io/gorm"
)

// InterfaceCommandLogService defines the command log service interface
type InterfaceCommandLogService interface {
	GetCommandLogs(query models.PaginationQuery, doorID uint) ([]models.CommandLog, models.PaginationResult, error)
}

// CommandLogService 提供指令历史查询服务; 台账由核心写入, 这里只读
type CommandLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCommandLogService 创建一个新的指令历史服务
func NewCommandLogService(db *gorm.DB, cfg *config.Config) InterfaceCommandLogService {
	return &CommandLogService{
		DB:     db,
		Config: cfg,
	}
}

// GetCommandLogs 分页查询指令历史, doorID为0时查询全部
func (s *CommandLogService) GetCommandLogs(query models.PaginationQuery, doorID uint) ([]models.CommandLog, models.PaginationResult, error) {
	if query.PageNum <= 0 {
		query.PageNum = 1
	}
	if query.PageSize <= 0 || query.PageSize > 200 {
		query.PageSize = 50
	}

	db := s.DB.Model(&models.CommandLog{})
	if doorID != 0 {
		db = db.Where("door_id = ?", doorID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var logs []models.CommandLog
	if err := db.Preload("Door").Preload("Door.Chip").
		Order("requested_at DESC").
		Offset((query.PageNum - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&logs).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return logs, models.NewPaginationResult(int(total), query.PageNum, query.PageSize), nil
}

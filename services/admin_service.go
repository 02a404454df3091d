package services

import (
	"errors"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/utils"

	"gorm.io/gorm"
)

// InterfaceAdminService defines the admin service interface
type InterfaceAdminService interface {
	GetAllAdmins() ([]models.Admin, error)
	CreateAdmin(admin *models.Admin, plainPassword string) error
	DeleteAdmin(id uint) error
	Authenticate(username, password string) (*models.Admin, error)
}

// AdminService 提供管理员账户相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllAdmins 获取所有管理员列表
func (s *AdminService) GetAllAdmins() ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.DB.Order("id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateAdmin 创建新管理员
func (s *AdminService) CreateAdmin(admin *models.Admin, plainPassword string) error {
	// 验证用户名唯一性
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("用户名已存在")
	}

	if admin.Role != models.RoleAdmin && admin.Role != models.RoleSuperAdmin {
		return errors.New("无效的角色")
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	admin.Password = hashed

	return s.DB.Create(admin).Error
}

// DeleteAdmin 删除管理员
func (s *AdminService) DeleteAdmin(id uint) error {
	return s.DB.Delete(&models.Admin{}, id).Error
}

// Authenticate 校验用户名密码, 成功返回管理员记录
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户名或密码错误")
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, admin.Password) {
		return nil, errors.New("用户名或密码错误")
	}

	return &admin, nil
}

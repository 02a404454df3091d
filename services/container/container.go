package container

import (
	"log"
	"sync"

	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/services"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService *services.RedisService

	// 核心引擎
	eventService    services.InterfaceEventService
	gateService     services.InterfaceGateService
	scheduleService services.InterfaceScheduleService

	// 业务服务
	adminService      services.InterfaceAdminService
	chipService       services.InterfaceChipService
	doorService       services.InterfaceDoorService
	commandLogService services.InterfaceCommandLogService
	monitorService    services.InterfaceMonitorService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	// 初始化事件广播与门控核心
	c.eventService = services.NewEventService()
	c.gateService = services.NewGateService(c.db, c.config, c.eventService)

	// 连接MQTT服务器
	if err := c.gateService.Connect(); err != nil {
		log.Printf("MQTT服务连接失败: %v", err)
	}

	// 初始化并启动排程服务
	c.scheduleService = services.NewScheduleService(c.db, c.config, c.gateService, c.eventService)
	c.scheduleService.StartScheduler()

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config)
	c.chipService = services.NewChipService(c.db, c.config)
	c.doorService = services.NewDoorService(c.db, c.config)
	c.commandLogService = services.NewCommandLogService(c.db, c.config)
	c.monitorService = services.NewMonitorService(c.db, c.config, c.redisService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "event":
		return c.eventService
	case "gate":
		return c.gateService
	case "schedule":
		return c.scheduleService
	case "admin":
		return c.adminService
	case "chip":
		return c.chipService
	case "door":
		return c.doorService
	case "command_log":
		return c.commandLogService
	case "monitor":
		return c.monitorService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

package routes

import (
	"github.com/antonisk2077/ISK-Doorlock-v2/config"
	"github.com/antonisk2077/ISK-Doorlock-v2/controllers"
	_ "github.com/antonisk2077/ISK-Doorlock-v2/docs"
	"github.com/antonisk2077/ISK-Doorlock-v2/middleware"
	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 所有登录用户可用
	authenticated := api.Group("")
	authenticated.Use(middleware.Authenticate())
	{
		// 门列表与详情
		authenticated.GET("/doors", controllers.HandleDoorFunc(container, "getAllDoors"))
		authenticated.GET("/doors/:id", controllers.HandleDoorFunc(container, "getDoorByID"))

		// 实时事件流
		authenticated.GET("/events", controllers.HandleEventFunc(container, "stream"))
	}

	// 管理员及以上
	operator := api.Group("")
	operator.Use(middleware.Authenticate(), middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	{
		// 门控指令
		operator.POST("/gate/send", controllers.HandleGateFunc(container, "sendCommand"))

		// 排程管理
		operator.GET("/schedules", controllers.HandleScheduleFunc(container, "getSchedules"))
		operator.POST("/schedules/upsert", controllers.HandleScheduleFunc(container, "upsertSchedule"))
		operator.DELETE("/schedules/:id", controllers.HandleScheduleFunc(container, "deleteSchedule"))

		// 指令日志
		operator.GET("/command-logs", controllers.HandleCommandLogFunc(container, "getCommandLogs"))

		// 监控
		operator.GET("/monitor/ping-count", controllers.HandleMonitorFunc(container, "getPingCounts"))
		operator.GET("/monitor/health", controllers.HandleMonitorFunc(container, "getHealth"))
		operator.GET("/monitor/downtime-today", controllers.HandleMonitorFunc(container, "getDowntimeToday"))
	}

	// 仅超级管理员
	superAdmin := api.Group("")
	superAdmin.Use(middleware.Authenticate(), middleware.RequireSuperAdmin())
	{
		// 门管理
		superAdmin.POST("/doors", controllers.HandleDoorFunc(container, "createDoor"))
		superAdmin.PUT("/doors/:id", controllers.HandleDoorFunc(container, "updateDoor"))
		superAdmin.DELETE("/doors/:id", controllers.HandleDoorFunc(container, "deleteDoor"))

		// 芯片管理
		superAdmin.GET("/chips", controllers.HandleChipFunc(container, "getAllChips"))
		superAdmin.POST("/chips", controllers.HandleChipFunc(container, "createChip"))
		superAdmin.DELETE("/chips/:id", controllers.HandleChipFunc(container, "deleteChip"))

		// 管理员账号管理
		superAdmin.GET("/admins", controllers.HandleAdminFunc(container, "getAllAdmins"))
		superAdmin.POST("/admins", controllers.HandleAdminFunc(container, "createAdmin"))
		superAdmin.DELETE("/admins/:id", controllers.HandleAdminFunc(container, "deleteAdmin"))

		// 待确认指令观测
		superAdmin.GET("/gate/pending", controllers.HandleGateFunc(container, "getPending"))
	}
}

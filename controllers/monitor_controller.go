package controllers

import (
	"net/http"

	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceMonitorController 定义监控控制器接口
type InterfaceMonitorController interface {
	GetPingCounts()
	GetHealth()
	GetDowntimeToday()
}

// MonitorController 处理设备监控相关的请求
type MonitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMonitorController 创建一个新的监控控制器
func NewMonitorController(ctx *gin.Context, container *container.ServiceContainer) *MonitorController {
	return &MonitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleMonitorFunc 返回一个处理监控请求的Gin处理函数
func HandleMonitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMonitorController(ctx, container)

		switch method {
		case "getPingCounts":
			controller.GetPingCounts()
		case "getHealth":
			controller.GetHealth()
		case "getDowntimeToday":
			controller.GetDowntimeToday()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetPingCounts 各门近1天/7天心跳计数
// @Summary 心跳计数
// @Tags monitor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.PingCountRow
// @Failure 500 {object} ErrorResponse
// @Router /monitor/ping-count [get]
func (c *MonitorController) GetPingCounts() {
	monitorService := c.Container.GetService("monitor").(services.InterfaceMonitorService)

	rows, err := monitorService.GetPingCounts()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询心跳计数失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    rows,
	})
}

// 2. GetHealth 各门在线健康状态
// @Summary 健康状态
// @Description 最近心跳距今不超过心跳周期加容差则判定健康
// @Tags monitor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.HealthRow
// @Failure 500 {object} ErrorResponse
// @Router /monitor/health [get]
func (c *MonitorController) GetHealth() {
	monitorService := c.Container.GetService("monitor").(services.InterfaceMonitorService)

	rows, err := monitorService.GetHealth()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询健康状态失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    rows,
	})
}

// 3. GetDowntimeToday 各门今日累计掉线分钟数
// @Summary 今日掉线时长
// @Tags monitor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.DowntimeRow
// @Failure 500 {object} ErrorResponse
// @Router /monitor/downtime-today [get]
func (c *MonitorController) GetDowntimeToday() {
	monitorService := c.Container.GetService("monitor").(services.InterfaceMonitorService)

	rows, err := monitorService.GetDowntimeToday()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询掉线时长失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    rows,
	})
}

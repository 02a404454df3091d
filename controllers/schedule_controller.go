package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceScheduleController 定义排程控制器接口
type InterfaceScheduleController interface {
	GetSchedules()
	UpsertSchedule()
	DeleteSchedule()
}

// ScheduleController 处理排程相关的请求
type ScheduleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewScheduleController 创建一个新的排程控制器
func NewScheduleController(ctx *gin.Context, container *container.ServiceContainer) *ScheduleController {
	return &ScheduleController{
		Ctx:       ctx,
		Container: container,
	}
}

// ScheduleUpsertRequest 排程upsert请求
type ScheduleUpsertRequest struct {
	DoorID       uint   `json:"door_id" binding:"required" example:"1"`
	ScheduleDate string `json:"schedule_date" binding:"required" example:"2026-08-29"`
	OpenTime     string `json:"open_time" binding:"required" example:"08:00"`
	CloseTime    string `json:"close_time" binding:"required" example:"18:00"`
	Enabled      *bool  `json:"enabled" example:"true"`
}

// HandleScheduleFunc 返回一个处理排程请求的Gin处理函数
func HandleScheduleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewScheduleController(ctx, container)

		switch method {
		case "getSchedules":
			controller.GetSchedules()
		case "upsertSchedule":
			controller.UpsertSchedule()
		case "deleteSchedule":
			controller.DeleteSchedule()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetSchedules 查询排程列表
// @Summary 查询排程
// @Description 按日期查询排程, 不传日期时返回最近300条
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期(YYYY-MM-DD)"
// @Success 200 {array} models.Schedule
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /schedules [get]
func (c *ScheduleController) GetSchedules() {
	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)

	schedules, err := scheduleService.ListSchedules(c.Ctx.Query("date"))
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询排程失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    schedules,
	})
}

// 2. UpsertSchedule 创建或更新排程
// @Summary 创建或更新排程
// @Description 按(门, 日期)唯一; 更新会清空已触发标记使窗口重新生效
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ScheduleUpsertRequest true "排程内容"
// @Success 200 {object} models.Schedule
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /schedules/upsert [post]
func (c *ScheduleController) UpsertSchedule() {
	var req ScheduleUpsertRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "door_id, schedule_date, open_time, close_time为必填项",
			"data":    nil,
		})
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)

	schedule, err := scheduleService.UpsertSchedule(req.DoorID, req.ScheduleDate, req.OpenTime, req.CloseTime, enabled)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrDoorNotFound) {
			status = http.StatusNotFound
		}
		c.Ctx.JSON(status, gin.H{
			"code":    status,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    schedule,
	})
}

// 3. DeleteSchedule 删除排程
// @Summary 删除排程
// @Description 根据ID删除排程
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path int true "排程ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的排程ID",
			"data":    nil,
		})
		return
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)

	if err := scheduleService.DeleteSchedule(uint(id)); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "删除排程失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    gin.H{"ok": true},
	})
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// CommandLogController 处理指令日志相关的请求
type CommandLogController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCommandLogController 创建一个新的指令日志控制器
func NewCommandLogController(ctx *gin.Context, container *container.ServiceContainer) *CommandLogController {
	return &CommandLogController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleCommandLogFunc 返回一个处理指令日志请求的Gin处理函数
func HandleCommandLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCommandLogController(ctx, container)

		switch method {
		case "getCommandLogs":
			controller.GetCommandLogs()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetCommandLogs 分页查询指令日志
// @Summary 指令日志
// @Description 按下发时间倒序分页返回指令日志, 可按门过滤
// @Tags command-log
// @Produce json
// @Security BearerAuth
// @Param pageNum query int false "页码, 默认1"
// @Param pageSize query int false "每页条数, 默认50, 上限200"
// @Param door_id query int false "门ID过滤"
// @Success 200 {array} models.CommandLog
// @Failure 500 {object} ErrorResponse
// @Router /command-logs [get]
func (c *CommandLogController) GetCommandLogs() {
	pageNum, _ := strconv.Atoi(c.Ctx.DefaultQuery("pageNum", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("pageSize", "50"))
	doorID, _ := strconv.Atoi(c.Ctx.DefaultQuery("door_id", "0"))

	query := models.PaginationQuery{
		PageNum:  pageNum,
		PageSize: pageSize,
	}

	commandLogService := c.Container.GetService("command_log").(services.InterfaceCommandLogService)

	logs, pagination, err := commandLogService.GetCommandLogs(query, uint(doorID))
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询指令日志失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "成功",
		"data":       logs,
		"pagination": pagination,
	})
}

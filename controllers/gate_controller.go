package controllers

import (
	"errors"
	"net/http"

	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceGateController 定义门控指令控制器接口
type InterfaceGateController interface {
	SendCommand()
	GetPending()
}

// GateController 处理门控指令相关的请求
type GateController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGateController 创建一个新的门控指令控制器
func NewGateController(ctx *gin.Context, container *container.ServiceContainer) *GateController {
	return &GateController{
		Ctx:       ctx,
		Container: container,
	}
}

// SendCommandRequest 下发指令请求
type SendCommandRequest struct {
	DoorID uint   `json:"door_id" binding:"required" example:"1"`
	Action string `json:"action" binding:"required" example:"open"` // open, close
}

// HandleGateFunc 返回一个处理门控请求的Gin处理函数
func HandleGateFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGateController(ctx, container)

		switch method {
		case "sendCommand":
			controller.SendCommand()
		case "getPending":
			controller.GetPending()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. SendCommand 向指定门下发指令
// @Summary 下发门控指令
// @Description 向指定门的楼层控制主题发布open/close指令, 并登记待确认记录
// @Tags gate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendCommandRequest true "指令内容"
// @Success 200 {object} services.DispatchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /gate/send [post]
func (c *GateController) SendCommand() {
	var req SendCommandRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "door_id和action为必填项",
			"data":    nil,
		})
		return
	}

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)

	result, err := gateService.Dispatch(req.DoorID, req.Action)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidAction) || errors.Is(err, services.ErrDoorNoChip) {
			status = http.StatusBadRequest
		} else if errors.Is(err, services.ErrDoorNotFound) {
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
		"data":    result,
	})
}

// 2. GetPending 查询当前待确认指令数量
// @Summary 待确认指令数量
// @Description 进程内待确认表的当前大小, 用于观测; 进程重启后归零
// @Tags gate
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /gate/pending [get]
func (c *GateController) GetPending() {
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    gin.H{"pending": gateService.PendingCount()},
	})
}

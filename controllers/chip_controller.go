package controllers

import (
	"net/http"
	"strconv"

	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceChipController 定义芯片控制器接口
type InterfaceChipController interface {
	GetAllChips()
	CreateChip()
	DeleteChip()
}

// ChipController 处理门禁芯片相关的请求
type ChipController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewChipController 创建一个新的芯片控制器
func NewChipController(ctx *gin.Context, container *container.ServiceContainer) *ChipController {
	return &ChipController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateChipRequest 创建芯片请求
type CreateChipRequest struct {
	ChipNo string `json:"chip_no" binding:"required" example:"CHIP-0012"`
	MAC    string `json:"mac" binding:"required" example:"AA:BB:CC:DD:EE:FF"`
}

// HandleChipFunc 返回一个处理芯片请求的Gin处理函数
func HandleChipFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewChipController(ctx, container)

		switch method {
		case "getAllChips":
			controller.GetAllChips()
		case "createChip":
			controller.CreateChip()
		case "deleteChip":
			controller.DeleteChip()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetAllChips 获取所有芯片
// @Summary 芯片列表
// @Tags chip
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Chip
// @Failure 500 {object} ErrorResponse
// @Router /chips [get]
func (c *ChipController) GetAllChips() {
	chipService := c.Container.GetService("chip").(services.InterfaceChipService)

	chips, err := chipService.GetAllChips()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询芯片失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    chips,
	})
}

// 2. CreateChip 创建芯片
// @Summary 登记芯片
// @Description 登记一块新芯片及其MAC地址
// @Tags chip
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChipRequest true "芯片信息"
// @Success 200 {object} models.Chip
// @Failure 400 {object} ErrorResponse
// @Router /chips [post]
func (c *ChipController) CreateChip() {
	var req CreateChipRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "chip_no和mac为必填项",
			"data":    nil,
		})
		return
	}

	chip := &models.Chip{
		ChipNo: req.ChipNo,
		MAC:    req.MAC,
	}

	chipService := c.Container.GetService("chip").(services.InterfaceChipService)

	if err := chipService.CreateChip(chip); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    chip,
	})
}

// 3. DeleteChip 删除芯片
// @Summary 删除芯片
// @Tags chip
// @Produce json
// @Security BearerAuth
// @Param id path int true "芯片ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chips/{id} [delete]
func (c *ChipController) DeleteChip() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的芯片ID",
			"data":    nil,
		})
		return
	}

	chipService := c.Container.GetService("chip").(services.InterfaceChipService)

	if err := chipService.DeleteChip(uint(id)); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "删除芯片失败: " + err.Error(),
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

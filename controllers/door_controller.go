package controllers

import (
	"net/http"
	"strconv"

	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceDoorController 定义门控制器接口
type InterfaceDoorController interface {
	GetAllDoors()
	GetDoorByID()
	CreateDoor()
	UpdateDoor()
	DeleteDoor()
}

// DoorController 处理门相关的请求
type DoorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDoorController 创建一个新的门控制器
func NewDoorController(ctx *gin.Context, container *container.ServiceContainer) *DoorController {
	return &DoorController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateDoorRequest 创建门请求
type CreateDoorRequest struct {
	Floor  int    `json:"floor" binding:"required" example:"5"`
	RoomNo string `json:"room_no" binding:"required" example:"503"`
	ChipID *uint  `json:"chip_id" example:"1"`
}

// UpdateDoorRequest 更新门请求, 指针字段缺省表示不修改
type UpdateDoorRequest struct {
	Floor  *int    `json:"floor" example:"5"`
	RoomNo *string `json:"room_no" example:"503"`
	ChipID *uint   `json:"chip_id" example:"1"`
}

// HandleDoorFunc 返回一个处理门请求的Gin处理函数
func HandleDoorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDoorController(ctx, container)

		switch method {
		case "getAllDoors":
			controller.GetAllDoors()
		case "getDoorByID":
			controller.GetDoorByID()
		case "createDoor":
			controller.CreateDoor()
		case "updateDoor":
			controller.UpdateDoor()
		case "deleteDoor":
			controller.DeleteDoor()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetAllDoors 获取所有门
// @Summary 门列表
// @Description 按楼层和房号排序返回所有门, 含绑定的芯片
// @Tags door
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Door
// @Failure 500 {object} ErrorResponse
// @Router /doors [get]
func (c *DoorController) GetAllDoors() {
	doorService := c.Container.GetService("door").(services.InterfaceDoorService)

	doors, err := doorService.GetAllDoors()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询门失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    doors,
	})
}

// 2. GetDoorByID 获取单个门
// @Summary 门详情
// @Tags door
// @Produce json
// @Security BearerAuth
// @Param id path int true "门ID"
// @Success 200 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /doors/{id} [get]
func (c *DoorController) GetDoorByID() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的门ID",
			"data":    nil,
		})
		return
	}

	doorService := c.Container.GetService("door").(services.InterfaceDoorService)

	door, err := doorService.GetDoorByID(uint(id))
	if err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "门不存在",
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    door,
	})
}

// 3. CreateDoor 创建门
// @Summary 创建门
// @Tags door
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDoorRequest true "门信息"
// @Success 200 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Router /doors [post]
func (c *DoorController) CreateDoor() {
	var req CreateDoorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "floor和room_no为必填项",
			"data":    nil,
		})
		return
	}

	door := &models.Door{
		Floor:  req.Floor,
		RoomNo: req.RoomNo,
		ChipID: req.ChipID,
	}

	doorService := c.Container.GetService("door").(services.InterfaceDoorService)

	if err := doorService.CreateDoor(door); err != nil {
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
		"data":    door,
	})
}

// 4. UpdateDoor 更新门
// @Summary 更新门
// @Description 更新楼层/房号/芯片绑定, chip_id传null可解绑
// @Tags door
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门ID"
// @Param request body UpdateDoorRequest true "更新内容"
// @Success 200 {object} models.Door
// @Failure 400 {object} ErrorResponse
// @Router /doors/{id} [put]
func (c *DoorController) UpdateDoor() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的门ID",
			"data":    nil,
		})
		return
	}

	var req UpdateDoorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "请求体格式错误",
			"data":    nil,
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.RoomNo != nil {
		updates["room_no"] = *req.RoomNo
	}
	if req.ChipID != nil {
		updates["chip_id"] = req.ChipID
	}

	doorService := c.Container.GetService("door").(services.InterfaceDoorService)

	door, err := doorService.UpdateDoor(uint(id), updates)
	if err != nil {
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
		"data":    door,
	})
}

// 5. DeleteDoor 删除门
// @Summary 删除门
// @Tags door
// @Produce json
// @Security BearerAuth
// @Param id path int true "门ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /doors/{id} [delete]
func (c *DoorController) DeleteDoor() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的门ID",
			"data":    nil,
		})
		return
	}

	doorService := c.Container.GetService("door").(services.InterfaceDoorService)

	if err := doorService.DeleteDoor(uint(id)); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "删除门失败: " + err.Error(),
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

package controllers

import (
	"net/http"
	"strconv"

	"github.com/antonisk2077/ISK-Doorlock-v2/models"
	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetAllAdmins()
	CreateAdmin()
	DeleteAdmin()
}

// AdminController 处理管理员账号相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required" example:"operator01"`
	Password string `json:"password" binding:"required" example:"password"`
	Role     string `json:"role" example:"admin"` // admin, superadmin
	Email    string `json:"email" example:"op@example.com"`
	Phone    string `json:"phone" example:"13800000000"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAllAdmins":
			controller.GetAllAdmins()
		case "createAdmin":
			controller.CreateAdmin()
		case "deleteAdmin":
			controller.DeleteAdmin()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. GetAllAdmins 获取所有管理员
// @Summary 管理员列表
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Admin
// @Failure 500 {object} ErrorResponse
// @Router /admins [get]
func (c *AdminController) GetAllAdmins() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)

	admins, err := adminService.GetAllAdmins()
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询管理员失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    admins,
	})
}

// 2. CreateAdmin 创建管理员
// @Summary 创建管理员
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdminRequest true "管理员信息"
// @Success 200 {object} models.Admin
// @Failure 400 {object} ErrorResponse
// @Router /admins [post]
func (c *AdminController) CreateAdmin() {
	var req CreateAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "username和password为必填项",
			"data":    nil,
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}

	admin := &models.Admin{
		Username: req.Username,
		Role:     role,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)

	if err := adminService.CreateAdmin(admin, req.Password); err != nil {
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
		"data":    admin,
	})
}

// 3. DeleteAdmin 删除管理员
// @Summary 删除管理员
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "管理员ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admins/{id} [delete]
func (c *AdminController) DeleteAdmin() {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的管理员ID",
			"data":    nil,
		})
		return
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)

	if err := adminService.DeleteAdmin(uint(id)); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "删除管理员失败: " + err.Error(),
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

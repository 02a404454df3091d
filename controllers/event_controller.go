package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/antonisk2077/ISK-Doorlock-v2/services"
	"github.com/antonisk2077/ISK-Doorlock-v2/services/container"

	"github.com/gin-gonic/gin"
)

// SSE保活间隔, 防止中间设备因空闲超时掐断连接
const sseKeepAliveInterval = 25 * time.Second

// EventController 处理实时事件流订阅
type EventController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEventController 创建一个新的事件流控制器
func NewEventController(ctx *gin.Context, container *container.ServiceContainer) *EventController {
	return &EventController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleEventFunc 返回一个处理事件流请求的Gin处理函数
func HandleEventFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEventController(ctx, container)

		switch method {
		case "stream":
			controller.Stream()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// 1. Stream 订阅实时事件流(SSE)
// @Summary 实时事件流
// @Description 以Server-Sent Events推送心跳/确认/排程触发等领域事件
// @Tags event
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Router /events [get]
func (c *EventController) Stream() {
	eventService := c.Container.GetService("event").(services.InterfaceEventService)

	w := c.Ctx.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// 先发送重连提示
	fmt.Fprint(w, "retry: 3000\n\n")
	w.Flush()

	sub := eventService.Subscribe()
	// 无论连接因何断开都要移除订阅者
	defer eventService.Unsubscribe(sub)

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Ctx.Request.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case event := <-sub.C:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			w.Flush()

		case <-keepAlive.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		}
	}
}

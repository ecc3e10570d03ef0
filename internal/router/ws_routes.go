// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由（需要认证）
// 浏览器无法设置 Header，可用 ws://host:port/ws/chat/1?token=xxx
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	wsGroup := rg.Group("/ws")
	{
		wsGroup.GET("/notifications", rt.handlers.Ws.Notifications)
		wsGroup.GET("/chat/:roomId", rt.handlers.Ws.Chat)
	}
}

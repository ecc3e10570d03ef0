package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoomRoutes 注册房间与消息路由
func (rt *Router) RegisterRoomRoutes(rg *gin.RouterGroup) {
	roomGroup := rg.Group("/room")
	{
		roomGroup.POST("/private", rt.handlers.Room.Private)
		roomGroup.POST("/group", rt.handlers.Room.Group)
		roomGroup.GET("/list", rt.handlers.Room.List)
		roomGroup.GET("/history", rt.handlers.Room.History)
		roomGroup.POST("/markRead", rt.handlers.Room.MarkRead)
	}
}

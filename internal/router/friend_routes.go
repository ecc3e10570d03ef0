package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes 注册好友申请路由
func (rt *Router) RegisterFriendRoutes(rg *gin.RouterGroup) {
	friendGroup := rg.Group("/friend")
	{
		friendGroup.POST("/request", rt.handlers.Friend.SendRequest)
		friendGroup.POST("/respond", rt.handlers.Friend.Respond)
		friendGroup.POST("/acknowledge", rt.handlers.Friend.Acknowledge)
		friendGroup.GET("/notifications", rt.handlers.Friend.Notifications)
	}
}

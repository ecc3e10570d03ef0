package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/me", rt.handlers.User.Me)
		userGroup.GET("/search", rt.handlers.User.Search)
		userGroup.POST("/changePassword", rt.handlers.User.ChangePassword)
	}
}

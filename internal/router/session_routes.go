package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes 注册实时会话管理路由
func (rt *Router) RegisterSessionRoutes(rg *gin.RouterGroup) {
	sessionGroup := rg.Group("/session")
	{
		sessionGroup.POST("/forceLogout", rt.handlers.Session.ForceLogout)
		sessionGroup.POST("/logout", rt.handlers.Session.Logout)
	}
}

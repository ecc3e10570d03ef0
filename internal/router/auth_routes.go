package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册公开的注册登录与找回密码路由
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/register", rt.handlers.Auth.Register)
	r.POST("/login", rt.handlers.Auth.Login)
	r.GET("/account/check", rt.handlers.Auth.CheckHandle)

	passwordGroup := r.Group("/password")
	{
		passwordGroup.GET("/question", rt.handlers.Auth.SecurityQuestion)
		passwordGroup.POST("/reset", rt.handlers.Auth.ResetPassword)
	}
}

// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"presence_chat_server/internal/handler"
	"presence_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 持有 Handler 聚合，按模块注册路由
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 公开接口直接挂在 engine 上，其余接口统一经过 JWTAuth
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterAuthRoutes(r)

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	rt.RegisterUserRoutes(authed)
	rt.RegisterFriendRoutes(authed)
	rt.RegisterContactRoutes(authed)
	rt.RegisterRoomRoutes(authed)
	rt.RegisterSessionRoutes(authed)
	rt.RegisterWebSocketRoutes(authed)
}

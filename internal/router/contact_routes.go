package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterContactRoutes 注册好友列表路由
func (rt *Router) RegisterContactRoutes(rg *gin.RouterGroup) {
	contactGroup := rg.Group("/contact")
	{
		contactGroup.GET("/list", rt.handlers.Contact.List)
		contactGroup.GET("/online", rt.handlers.Contact.Online)
		contactGroup.POST("/delete", rt.handlers.Contact.Delete)
		contactGroup.POST("/remark", rt.handlers.Contact.Remark)
	}
}

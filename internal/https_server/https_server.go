// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"presence_chat_server/internal/config"
	"presence_chat_server/internal/handler"
	"presence_chat_server/internal/infrastructure/logger"
	"presence_chat_server/internal/infrastructure/middleware"
	"presence_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建 Gin 引擎并注册中间件和业务路由
// 配置顺序：日志 -> 恢复 -> CORS -> 可选 TLS 重定向 -> 路由
func Init(handlers *handler.Handlers, mainConf *config.MainConfig) *gin.Engine {
	// 不使用 gin.Default() 以便完全控制中间件
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", handler.OriginHeader}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时关闭 forceTLS
	if mainConf != nil && mainConf.ForceTLS {
		engine.Use(middleware.TlsHandler(mainConf.Host, mainConf.Port))
	}

	router.NewRouter(handlers).RegisterRoutes(engine)
	return engine
}

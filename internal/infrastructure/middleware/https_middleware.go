package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler mainConfig.forceTLS 开启时把 HTTP 请求重定向到 HTTPS
func TlsHandler(host string, port int) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect: true,
		SSLHost:     host + ":" + strconv.Itoa(port),
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			zap.L().Error("TLS redirection failed", zap.Error(err))
			c.Abort()
			return
		}
		// 已重定向时 secure 会写入 Location，避免继续执行业务 Handler
		if status := c.Writer.Status(); status >= 300 && status < 400 {
			c.Abort()
			return
		}
		c.Next()
	}
}

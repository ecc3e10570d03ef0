package middleware

import (
	"net/http"
	"strings"

	"presence_chat_server/pkg/errorx"
	"presence_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserID gin 上下文中保存当前用户 ID 的键
const ContextUserID = "user_id"

// JWTAuth 验证 Access Token 并把用户 ID 存入上下文
// 浏览器 WebSocket 握手无法设置 Header，允许用 ?token= 传递
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := extractToken(c)
		if token == "" {
			abortUnauthorized(c, msg)
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新登录")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("token"); q != "" {
			return q, ""
		}
		return "", "请先登录"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "Token 格式错误，请使用 Bearer Token"
	}
	return parts[1], ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}

// GetUserID 读取 JWTAuth 写入的用户 ID
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok && uid != 0
}

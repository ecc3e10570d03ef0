// Package handler 提供 HTTP 请求处理器
// 本文件处理实时会话管理
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler 实时会话处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// ForceLogout 关闭本人其他会话，用于处理 login_elsewhere
// POST /session/forceLogout
// 请求体: request.ForceLogoutRequest
// 响应: respond.ForceLogoutRespond
func (h *SessionHandler) ForceLogout(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.ForceLogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	HandleSuccess(c, h.sessionSvc.ForceLogout(c.Request.Context(), uid, req.KeepSessionID))
}

// Logout 关闭本人全部会话
// POST /session/logout
// 响应: respond.ForceLogoutRespond
func (h *SessionHandler) Logout(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	HandleSuccess(c, h.sessionSvc.Logout(c.Request.Context(), uid))
}

// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"strconv"
	"strings"

	"presence_chat_server/internal/gateway/websocket"
	"presence_chat_server/internal/service"
	"presence_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// OriginHeader 客户端可自报来源标识，缺省使用客户端 IP
const OriginHeader = "X-Client-Origin"

// WsHandler WebSocket 连接处理器
type WsHandler struct {
	roomSvc service.RoomService
	server  *websocket.Server
}

// NewWsHandler 创建 WebSocket 处理器
func NewWsHandler(roomSvc service.RoomService, server *websocket.Server) *WsHandler {
	return &WsHandler{roomSvc: roomSvc, server: server}
}

// Notifications 通知通道，接收好友上下线、好友申请等事件
// GET /ws/notifications
func (h *WsHandler) Notifications(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	h.server.Serve(c, uid, clientOrigin(c), 0)
}

// Chat 房间通道，连接前校验成员资格
// GET /ws/chat/:roomId
func (h *WsHandler) Chat(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 64)
	if err != nil || roomID == 0 {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "roomId 不合法"))
		return
	}
	if err := h.roomSvc.EnsureMember(c.Request.Context(), uint(roomID), uid); err != nil {
		HandleError(c, err)
		return
	}
	h.server.Serve(c, uid, clientOrigin(c), uint(roomID))
}

func clientOrigin(c *gin.Context) string {
	if origin := strings.TrimSpace(c.GetHeader(OriginHeader)); origin != "" {
		return origin
	}
	if origin := strings.TrimSpace(c.Query("origin")); origin != "" {
		return origin
	}
	return c.ClientIP()
}

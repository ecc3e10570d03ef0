// Package handler 提供 HTTP 请求处理器
// 本文件处理房间与消息相关的 API 请求
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomHandler 房间与消息处理器
type RoomHandler struct {
	roomSvc    service.RoomService
	messageSvc service.MessageService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomSvc service.RoomService, messageSvc service.MessageService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, messageSvc: messageSvc}
}

// Private 打开与好友的私聊房间
// POST /room/private
// 请求体: request.PrivateRoomRequest
// 响应: respond.RoomRespond
func (h *RoomHandler) Private(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.PrivateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.roomSvc.FindOrCreatePrivateRoom(c.Request.Context(), uid, req.ContactID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Group 创建群聊
// POST /room/group
// 请求体: request.CreateGroupRoomRequest
// 响应: respond.RoomRespond
func (h *RoomHandler) Group(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.CreateGroupRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.roomSvc.CreateGroupRoom(c.Request.Context(), uid, req.Name, req.MemberIDs)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// List 当前用户的房间列表
// GET /room/list
// 响应: []respond.RoomRespond
func (h *RoomHandler) List(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.roomSvc.ListRooms(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// History 房间历史消息，按时间升序
// GET /room/history?room_id=1&limit=50
// 响应: []respond.MessageRespond
func (h *RoomHandler) History(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.roomSvc.EnsureMember(ctx, req.RoomID, uid); err != nil {
		HandleError(c, err)
		return
	}
	data, err := h.messageSvc.RecentHistory(ctx, req.RoomID, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 标记对方消息已读，并向对方推送 read_status_update
// POST /room/markRead
// 请求体: request.MarkReadRequest
// 响应: respond.MarkReadRespond
func (h *RoomHandler) MarkRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := h.roomSvc.EnsureMember(ctx, req.RoomID, uid); err != nil {
		HandleError(c, err)
		return
	}
	ids, err := h.messageSvc.MarkReadForRoom(ctx, req.RoomID, uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{MessageIDs: ids})
}

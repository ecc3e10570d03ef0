// Package handler 提供 HTTP 请求处理器
// 本文件处理好友申请
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友申请处理器
type FriendHandler struct {
	contactSvc service.ContactService
}

// NewFriendHandler 创建好友申请处理器
func NewFriendHandler(contactSvc service.ContactService) *FriendHandler {
	return &FriendHandler{contactSvc: contactSvc}
}

// SendRequest 发起好友申请
// POST /friend/request
// 请求体: request.SendFriendRequest
// 响应: respond.FriendRequestRespond
func (h *FriendHandler) SendRequest(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.SendRequest(c.Request.Context(), uid, req.ReceiverID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Respond 同意或拒绝好友申请
// POST /friend/respond
// 请求体: request.RespondFriendRequest
// 响应: respond.FriendRequestRespond
func (h *FriendHandler) Respond(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.RespondFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.Respond(c.Request.Context(), req.RequestID, uid, req.Decision)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Acknowledge 申请人确认已看到结果
// POST /friend/acknowledge
// 请求体: request.AcknowledgeFriendRequest
func (h *FriendHandler) Acknowledge(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.AcknowledgeFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.Acknowledge(c.Request.Context(), req.RequestID, uid, req.Kind); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Notifications 好友通知列表
// GET /friend/notifications
// 响应: []respond.FriendNotificationRespond
func (h *FriendHandler) Notifications(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.contactSvc.ListNotifications(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

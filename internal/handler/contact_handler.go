// Package handler 提供 HTTP 请求处理器
// 本文件处理好友列表相关的 API 请求
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler 好友列表处理器
type ContactHandler struct {
	contactSvc service.ContactService
	sessionSvc service.SessionService
}

// NewContactHandler 创建好友列表处理器
func NewContactHandler(contactSvc service.ContactService, sessionSvc service.SessionService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc, sessionSvc: sessionSvc}
}

// List 好友列表
// GET /contact/list
// 响应: []respond.ContactRespond
func (h *ContactHandler) List(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.contactSvc.ListContacts(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Online 在线好友 ID
// GET /contact/online
// 响应: []uint
func (h *ContactHandler) Online(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.sessionSvc.OnlineContacts(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Delete 删除好友
// POST /contact/delete
// 请求体: request.DeleteContactRequest
func (h *ContactHandler) Delete(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.DeleteContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.DeleteContact(c.Request.Context(), uid, req.ContactID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Remark 修改好友备注
// POST /contact/remark
// 请求体: request.UpdateRemarkRequest
func (h *ContactHandler) Remark(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.UpdateRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.UpdateRemark(c.Request.Context(), uid, req.ContactID, req.Remark); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

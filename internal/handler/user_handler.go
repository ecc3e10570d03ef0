// Package handler 提供 HTTP 请求处理器
// 本文件处理用户资料与搜索
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户请求处理器
type UserHandler struct {
	userSvc    service.UserService
	contactSvc service.ContactService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userSvc service.UserService, contactSvc service.ContactService) *UserHandler {
	return &UserHandler{userSvc: userSvc, contactSvc: contactSvc}
}

// Me 当前用户资料
// GET /user/me
// 响应: respond.UserDetailRespond
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	data, err := h.userSvc.GetUserDetail(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Search 搜索可添加为好友的用户，结果不含自己和已有好友
// GET /user/search?keyword=xxx
// 响应: []respond.UserBriefRespond
func (h *UserHandler) Search(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.SearchUserRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.contactSvc.SearchUsers(c.Request.Context(), uid, req.Keyword)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ChangePassword 修改密码
// POST /user/changePassword
// 请求体: request.ChangePasswordRequest
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req request.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.userSvc.ChangePassword(c.Request.Context(), uid, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

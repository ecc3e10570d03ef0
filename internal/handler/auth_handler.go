// Package handler 提供 HTTP 请求处理器
// 本文件处理注册与登录
package handler

import (
	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 注册登录处理器
type AuthHandler struct {
	userSvc service.UserService
}

// NewAuthHandler 创建注册登录处理器
func NewAuthHandler(userSvc service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Register 用户注册，成功后直接返回 Token
// POST /register
// 请求体: request.RegisterRequest
// 响应: respond.LoginRespond
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Login 登录名 + 密码登录
// POST /login
// 请求体: request.LoginRequest
// 响应: respond.LoginRespond
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CheckHandle 注册前检查登录名是否可用
// GET /account/check?handle=xxx
// 响应: respond.HandleCheckRespond
func (h *AuthHandler) CheckHandle(c *gin.Context) {
	var req request.CheckHandleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.CheckHandle(c.Request.Context(), req.Handle)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SecurityQuestion 找回密码第一步，获取安全问题
// GET /password/question?handle=xxx
// 响应: respond.SecurityQuestionRespond
func (h *AuthHandler) SecurityQuestion(c *gin.Context) {
	var req request.SecurityQuestionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.SecurityQuestion(c.Request.Context(), req.Handle)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ResetPassword 找回密码第二步，提交答案和新密码
// POST /password/reset
// 请求体: request.ResetPasswordRequest
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.userSvc.ResetPassword(c.Request.Context(), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"presence_chat_server/internal/gateway/websocket"
	"presence_chat_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Friend  *FriendHandler
	Contact *ContactHandler
	Room    *RoomHandler
	Session *SessionHandler
	Ws      *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// maxIdleMinutes: WebSocket 连接无任何帧的最长时间
func NewHandlers(svc *service.Services, maxIdleMinutes int) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.User),
		User:    NewUserHandler(svc.User, svc.Contact),
		Friend:  NewFriendHandler(svc.Contact),
		Contact: NewContactHandler(svc.Contact, svc.Session),
		Room:    NewRoomHandler(svc.Room, svc.Message),
		Session: NewSessionHandler(svc.Session),
		Ws:      NewWsHandler(svc.Room, websocket.NewServer(svc.Hub, maxIdleMinutes)),
	}
}

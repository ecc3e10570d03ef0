// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"presence_chat_server/internal/config"
	"presence_chat_server/internal/dao/database/repository"
	myredis "presence_chat_server/internal/dao/redis"
	"presence_chat_server/internal/infrastructure/credential"
	"presence_chat_server/internal/infrastructure/mq"
	"presence_chat_server/internal/realtime"
	"presence_chat_server/internal/service/contact"
	"presence_chat_server/internal/service/message"
	"presence_chat_server/internal/service/room"
	"presence_chat_server/internal/service/session"
	"presence_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例，同时持有实时核心 Hub
type Services struct {
	User    UserService
	Contact ContactService
	Room    RoomService
	Message MessageService
	Session SessionService
	Hub     *realtime.Hub
}

// NewServices 创建实时核心并注入所有 Service
// 依赖顺序：Registry/Dispatcher -> 好友服务 -> Presence -> 消息服务 -> Hub
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService,
	publisher mq.PresencePublisher, verifier credential.Verifier, cfg *config.PresenceConfig) *Services {
	rejectSameOrigin, historyLimit := false, 0
	if cfg != nil {
		rejectSameOrigin, historyLimit = cfg.RejectSameOrigin, cfg.HistoryLimit
	}

	registry := realtime.NewRegistry(rejectSameOrigin)
	dispatcher := realtime.NewDispatcher(registry)

	contactSvc := contact.NewContactService(repos, cache, dispatcher, registry)
	presence := realtime.NewPresence(registry, dispatcher, contactSvc, cache, publisher)
	messageSvc := message.NewMessageService(repos, registry, realtime.NewReceiptTracker(), dispatcher)
	hub := realtime.NewHub(registry, dispatcher, presence, messageSvc, historyLimit)

	return &Services{
		User:    user.NewUserService(repos, verifier, registry),
		Contact: contactSvc,
		Room:    room.NewRoomService(repos),
		Message: messageSvc,
		Session: session.NewSessionService(hub),
		Hub:     hub,
	}
}

package session

import (
	"context"

	"go.uber.org/zap"

	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/realtime"
	"presence_chat_server/pkg/errorx"
)

// sessionService 实时会话管理，委托给 realtime.Hub
type sessionService struct {
	hub *realtime.Hub
}

// NewSessionService 构造函数
func NewSessionService(hub *realtime.Hub) *sessionService {
	return &sessionService{hub: hub}
}

// ForceLogout 关闭本人除 keepSessionID 外的全部会话
func (s *sessionService) ForceLogout(ctx context.Context, userID uint, keepSessionID string) *respond.ForceLogoutRespond {
	closed := s.hub.ForceLogout(ctx, userID, keepSessionID)
	if closed > 0 {
		zap.L().Info("force logout", zap.Uint("user", userID), zap.Int("closed", closed))
	}
	return &respond.ForceLogoutRespond{Closed: closed}
}

// Logout 关闭本人全部会话
func (s *sessionService) Logout(ctx context.Context, userID uint) *respond.ForceLogoutRespond {
	return s.ForceLogout(ctx, userID, "")
}

// OnlineContacts 当前在线的好友 ID
func (s *sessionService) OnlineContacts(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.hub.Presence().OnlineContacts(ctx, userID)
	if err != nil {
		zap.L().Error("online contacts error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

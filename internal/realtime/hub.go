package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/pkg/enum/event_type_enum"
	"presence_chat_server/pkg/enum/presence_status_enum"

	"go.uber.org/zap"
)

// MessageCore 消息存储与已读回执，Hub 通过它读写消息
type MessageCore interface {
	RecentHistory(ctx context.Context, roomID uint, limit int) ([]respond.MessageRespond, error)
	Append(ctx context.Context, roomID, senderID uint, content string) (*respond.MessageRespond, error)
	MarkRead(ctx context.Context, roomID, readerID uint) error
	ReadIdsByAuthor(roomID, readerID, authorID uint) []uint
}

// Hub 连接生命周期与入站事件处理
type Hub struct {
	registry     *Registry
	dispatcher   *Dispatcher
	presence     *Presence
	messages     MessageCore
	historyLimit int
}

// NewHub 组装 Hub，并把 Dispatcher 的写失败处理指向 Disconnect
func NewHub(registry *Registry, dispatcher *Dispatcher, presence *Presence, messages MessageCore, historyLimit int) *Hub {
	h := &Hub{
		registry:     registry,
		dispatcher:   dispatcher,
		presence:     presence,
		messages:     messages,
		historyLimit: historyLimit,
	}
	dispatcher.SetDropHandler(func(s *Session) {
		h.Disconnect(context.Background(), s)
	})
	return h
}

func (h *Hub) Registry() *Registry     { return h.registry }
func (h *Hub) Dispatcher() *Dispatcher { return h.dispatcher }
func (h *Hub) Presence() *Presence     { return h.presence }

// Connect 登记会话并完成上线流程
// roomID 非 0 时调用方需已校验成员资格
func (h *Hub) Connect(ctx context.Context, identity uint, conn Conn, origin string, roomID uint) (*Session, error) {
	s, res, err := h.registry.Register(identity, conn, origin, roomID)
	if err != nil {
		return nil, err
	}
	zap.L().Info("realtime session connected",
		zap.String("session", s.ID), zap.Uint("identity", identity),
		zap.Uint("room", roomID), zap.String("origin", origin))

	if res.BecameReachable {
		h.presence.Online(ctx, identity)
	}
	if len(res.OtherOrigins) > 0 {
		_ = h.dispatcher.SendToSession(s, NewLoginElsewhereEvent(res.OtherOrigins))
	}
	if roomID != 0 {
		h.enterRoom(ctx, s, roomID)
	}
	return s, nil
}

// enterRoom 推送历史，标记对方消息已读并通知对方
func (h *Hub) enterRoom(ctx context.Context, s *Session, roomID uint) {
	history, err := h.messages.RecentHistory(ctx, roomID, h.historyLimit)
	if err != nil {
		zap.L().Error("load history failed", zap.Uint("room", roomID), zap.Error(err))
	} else if err = h.dispatcher.SendToSession(s, NewHistoryEvent(history)); err != nil {
		return
	}

	partner, ok := h.registry.PartnerOf(s, roomID)
	if !ok {
		return
	}
	h.markReadAndNotify(ctx, roomID, s.Identity, partner)
	h.dispatcher.Send(partner, NewPartnerStatusEvent(presence_status_enum.ONLINE))
}

// Disconnect 注销会话，可重复调用
// 身份在房间内的最后一个会话离开时通知对方 offline，最后一个会话断开时广播下线
func (h *Hub) Disconnect(ctx context.Context, s *Session) {
	if s == nil {
		return
	}
	roomID := s.RoomID()
	departed := false
	if roomID != 0 {
		departed = h.registry.Leave(roomID, s)
	}
	unreachable := h.registry.Unregister(s)
	_ = s.Close()

	if departed {
		if partner, ok := h.registry.PartnerAfterLeave(roomID, s.Identity); ok {
			h.dispatcher.Send(partner, NewPartnerStatusEvent(presence_status_enum.OFFLINE))
		}
	}
	if unreachable {
		h.presence.Offline(ctx, s.Identity)
	}
	if departed || unreachable {
		zap.L().Info("realtime session disconnected",
			zap.String("session", s.ID), zap.Uint("identity", s.Identity), zap.Uint("room", roomID))
	}
}

// ForceLogout 关闭 identity 除 keepSessionID 外的全部会话，返回关闭数量
func (h *Hub) ForceLogout(ctx context.Context, identity uint, keepSessionID string) int {
	others := h.registry.CloseOthers(identity, keepSessionID)
	for _, s := range others {
		h.Disconnect(ctx, s)
	}
	return len(others)
}

// HandleInbound 处理一帧客户端数据
// JSON 帧按 type 分派，其余文本在房间通道内视为聊天内容
func (h *Hub) HandleInbound(ctx context.Context, s *Session, data []byte) {
	content := string(data)
	if frame, ok := parseFrame(data); ok {
		switch frame.Type {
		case event_type_enum.Ping:
			return
		case event_type_enum.ReadNotification:
			h.onReadNotification(ctx, s, frame)
			return
		case event_type_enum.Message:
			content = frame.Content
		default:
			zap.L().Debug("ignore inbound frame", zap.String("type", frame.Type), zap.String("session", s.ID))
			return
		}
	}

	roomID := s.RoomID()
	if roomID == 0 {
		return
	}
	if strings.TrimSpace(content) == "" {
		return
	}
	// 已断开的会话可能还有未处理完的帧
	if _, ok := h.registry.Session(s.ID); !ok {
		return
	}

	msg, err := h.messages.Append(ctx, roomID, s.Identity, content)
	if err != nil {
		zap.L().Error("append message failed", zap.Uint("room", roomID), zap.Uint("sender", s.Identity), zap.Error(err))
		return
	}
	h.dispatcher.SendRoom(roomID, NewNewMessageEvent(*msg))
}

func (h *Hub) onReadNotification(ctx context.Context, s *Session, frame InboundFrame) {
	roomID := s.RoomID()
	if roomID == 0 {
		return
	}
	author := frame.RecipientID
	if author == 0 {
		partner, ok := h.registry.PartnerOf(s, roomID)
		if !ok {
			return
		}
		author = partner
	}
	h.markReadAndNotify(ctx, roomID, s.Identity, author)
}

func (h *Hub) markReadAndNotify(ctx context.Context, roomID, reader, author uint) {
	if err := h.messages.MarkRead(ctx, roomID, reader); err != nil {
		zap.L().Error("mark read failed", zap.Uint("room", roomID), zap.Uint("reader", reader), zap.Error(err))
		return
	}
	ids := h.messages.ReadIdsByAuthor(roomID, reader, author)
	if len(ids) == 0 {
		return
	}
	h.dispatcher.Send(author, NewReadStatusUpdateEvent(ids))
}

// parseFrame 只有带 type 字段的 JSON 对象才算控制帧
func parseFrame(data []byte) (InboundFrame, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return InboundFrame{}, false
	}
	var frame InboundFrame
	if err := json.Unmarshal(trimmed, &frame); err != nil || frame.Type == "" {
		return InboundFrame{}, false
	}
	return frame, true
}

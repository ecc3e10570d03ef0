package realtime

import (
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/pkg/enum/event_type_enum"
)

// HistoryEvent 进入房间时推送的历史消息，按时间升序
type HistoryEvent struct {
	Type string                   `json:"type"`
	Data []respond.MessageRespond `json:"data"`
}

// NewMessageEvent 房间内的新消息
type NewMessageEvent struct {
	Type string                 `json:"type"`
	Data respond.MessageRespond `json:"data"`
}

// ReadStatusUpdateEvent 通知作者哪些消息已被读
type ReadStatusUpdateEvent struct {
	Type       string `json:"type"`
	MessageIDs []uint `json:"messageIds"`
}

// PartnerStatusEvent 房间内对方进入或离开
type PartnerStatusEvent struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// StatusChangeEvent 好友上下线
type StatusChangeEvent struct {
	Type   string `json:"type"`
	UserID uint   `json:"userId"`
	Status string `json:"status"`
}

// MarkerEvent 只带类型的提示事件，客户端收到后自行拉取详情
type MarkerEvent struct {
	Type string `json:"type"`
}

// LoginElsewhereEvent 同一身份已在其他来源在线
type LoginElsewhereEvent struct {
	Type    string   `json:"type"`
	Origins []string `json:"origins"`
}

// InboundFrame 客户端发来的 JSON 帧
type InboundFrame struct {
	Type        string `json:"type"`
	RecipientID uint   `json:"recipientId"`
	Content     string `json:"content"`
}

func NewHistoryEvent(messages []respond.MessageRespond) HistoryEvent {
	if messages == nil {
		messages = []respond.MessageRespond{}
	}
	return HistoryEvent{Type: event_type_enum.History, Data: messages}
}

func NewNewMessageEvent(msg respond.MessageRespond) NewMessageEvent {
	return NewMessageEvent{Type: event_type_enum.NewMessage, Data: msg}
}

func NewReadStatusUpdateEvent(ids []uint) ReadStatusUpdateEvent {
	return ReadStatusUpdateEvent{Type: event_type_enum.ReadStatusUpdate, MessageIDs: ids}
}

func NewPartnerStatusEvent(status string) PartnerStatusEvent {
	return PartnerStatusEvent{Type: event_type_enum.PartnerStatusChange, Status: status}
}

func NewStatusChangeEvent(userID uint, status string) StatusChangeEvent {
	return StatusChangeEvent{Type: event_type_enum.StatusChange, UserID: userID, Status: status}
}

func NewMarkerEvent(eventType string) MarkerEvent {
	return MarkerEvent{Type: eventType}
}

func NewLoginElsewhereEvent(origins []string) LoginElsewhereEvent {
	return LoginElsewhereEvent{Type: event_type_enum.LoginElsewhere, Origins: origins}
}

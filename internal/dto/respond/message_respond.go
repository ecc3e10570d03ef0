package respond

// MessageRespond 一条聊天消息，同时用作实时事件载荷
type MessageRespond struct {
	ID             uint   `json:"id"`
	RoomID         uint   `json:"roomId"`
	SenderID       uint   `json:"senderId"`
	SenderNickname string `json:"senderNickname"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
	IsRead         bool   `json:"isRead"`
}

// MarkReadRespond 本次被标记为已读的消息
type MarkReadRespond struct {
	MessageIDs []uint `json:"message_ids"`
}

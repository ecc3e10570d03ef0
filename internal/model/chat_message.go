package model

import "time"

// ChatMessage 聊天消息
// 房间内按 (created_at, id) 排序
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"column:room_id;index:idx_message_unread,priority:1;index:idx_message_room_time,priority:1;not null"`
	SenderID  uint      `gorm:"column:sender_id;index:idx_message_unread,priority:2;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	IsRead    bool      `gorm:"column:is_read;index:idx_message_unread,priority:3;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_message_room_time,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

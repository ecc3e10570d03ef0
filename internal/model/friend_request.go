package model

import "time"

// FriendRequest 好友申请
// 同一对 (sender, receiver) 只有一行，重复申请会把状态重置为 pending
// Status 取值见 friend_request_status_enum
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"column:sender_id;uniqueIndex:idx_request_pair;not null;comment:申请人"`
	ReceiverID uint      `gorm:"column:receiver_id;uniqueIndex:idx_request_pair;index;not null;comment:被申请人"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;comment:pending/accepted/rejected"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

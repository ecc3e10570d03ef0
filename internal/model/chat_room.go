package model

import (
	"fmt"
	"time"
)

// ChatRoom 聊天房间
// 私聊房间 IsPrivate=true，OwnerID 为 0，成员恰好两人
// PairKey 仅私聊房间有值，唯一索引保证一对好友最多一个私聊房间
type ChatRoom struct {
	ID        uint      `gorm:"primaryKey"`
	IsPrivate bool      `gorm:"column:is_private;not null;default:false"`
	PairKey   *string   `gorm:"column:pair_key;type:varchar(48);uniqueIndex"`
	Name      string    `gorm:"column:name;type:varchar(64);comment:群聊名称"`
	OwnerID   uint      `gorm:"column:owner_id;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// PrivatePairKey 两个用户私聊房间的唯一键，与参数顺序无关
func PrivatePairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ChatRoomMember 房间成员
type ChatRoomMember struct {
	ID     uint `gorm:"primaryKey"`
	RoomID uint `gorm:"column:room_id;uniqueIndex:idx_room_member;not null"`
	UserID uint `gorm:"column:user_id;uniqueIndex:idx_room_member;index;not null"`
}

func (ChatRoomMember) TableName() string {
	return "chat_room_members"
}

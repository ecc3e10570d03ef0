package request

// PrivateRoomRequest 打开与好友的私聊房间
type PrivateRoomRequest struct {
	ContactID uint `json:"contact_id" binding:"required"`
}

// CreateGroupRoomRequest 创建群聊房间
type CreateGroupRoomRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	MemberIDs []uint `json:"member_ids" binding:"required,min=1,dive,required"`
}

// HistoryRequest 查询房间历史消息
type HistoryRequest struct {
	RoomID uint `form:"room_id" binding:"required"`
	Limit  int  `form:"limit" binding:"omitempty,min=1,max=200"`
}

// MarkReadRequest 标记房间内对方消息已读
type MarkReadRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
}

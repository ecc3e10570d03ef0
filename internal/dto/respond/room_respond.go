package respond

// RoomRespond 房间列表项，私聊房间带对方信息
type RoomRespond struct {
	RoomID          uint   `json:"room_id"`
	IsPrivate       bool   `json:"is_private"`
	Name            string `json:"name"`
	PartnerID       uint   `json:"partner_id,omitempty"`
	PartnerNickname string `json:"partner_nickname,omitempty"`
	MemberCount     int    `json:"member_count"`
}

package respond

// FriendRequestRespond 发起或处理好友申请后的结果
type FriendRequestRespond struct {
	RequestID uint   `json:"request_id"`
	Status    string `json:"status"`
}

// FriendNotificationRespond 好友通知列表项
// Kind 为 received 时 Other 是申请人，为 sent 时 Other 是被申请人
type FriendNotificationRespond struct {
	RequestID     uint   `json:"request_id"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	OtherUserID   uint   `json:"other_user_id"`
	OtherNickname string `json:"other_nickname"`
	UpdatedAt     string `json:"updated_at"`
}

package request

// SendFriendRequest 发起好友申请
type SendFriendRequest struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

// RespondFriendRequest 处理好友申请，Decision 取 accepted / rejected
type RespondFriendRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Decision  string `json:"decision" binding:"required"`
}

// AcknowledgeFriendRequest 申请人确认已看到处理结果，Kind 取 accepted_seen / rejected_seen
type AcknowledgeFriendRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

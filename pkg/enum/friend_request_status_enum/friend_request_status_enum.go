package friend_request_status_enum

// 好友申请状态
const (
	PENDING  = "pending"
	ACCEPTED = "accepted"
	REJECTED = "rejected"
)

// 发送方"知道了"确认类型
const (
	ACCEPTED_SEEN = "accepted_seen"
	REJECTED_SEEN = "rejected_seen"
)

// 通知方向
const (
	RECEIVED = "received"
	SENT     = "sent"
)

// IsDecision 判断是否为合法的响应决定
func IsDecision(status string) bool {
	return status == ACCEPTED || status == REJECTED
}

// StatusOfSeen 返回确认类型对应的申请状态
func StatusOfSeen(kind string) (string, bool) {
	switch kind {
	case ACCEPTED_SEEN:
		return ACCEPTED, true
	case REJECTED_SEEN:
		return REJECTED, true
	}
	return "", false
}

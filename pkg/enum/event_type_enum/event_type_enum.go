package event_type_enum

// 实时事件类型
const (
	History             = "history"
	NewMessage          = "new_message"
	Message             = "message"
	ReadNotification    = "read_notification"
	ReadStatusUpdate    = "read_status_update"
	PartnerStatusChange = "partner_status_change"
	StatusChange        = "status_change"
	NewFriendRequest    = "new_friend_request"
	RequestResponded    = "request_responded"
	LoginElsewhere      = "login_elsewhere"
	Ping                = "ping"
)

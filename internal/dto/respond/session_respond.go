package respond

// ForceLogoutRespond 被关闭的会话数
type ForceLogoutRespond struct {
	Closed int `json:"closed"`
}

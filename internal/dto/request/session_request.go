package request

// ForceLogoutRequest 关闭本人其他会话，KeepSessionID 为空时全部关闭
type ForceLogoutRequest struct {
	KeepSessionID string `json:"keep_session_id"`
}

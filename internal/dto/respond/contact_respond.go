package respond

// ContactRespond 好友列表项
type ContactRespond struct {
	UserID   uint   `json:"user_id"`
	Handle   string `json:"handle"`
	Nickname string `json:"nickname"`
	Remark   string `json:"remark"`
	Online   bool   `json:"online"`
}

package respond

// UserBriefRespond 搜索结果等场景使用的用户摘要
type UserBriefRespond struct {
	UserID   uint   `json:"user_id"`
	Handle   string `json:"handle"`
	Nickname string `json:"nickname"`
}

// UserDetailRespond 当前用户信息
type UserDetailRespond struct {
	UserID    uint   `json:"user_id"`
	Handle    string `json:"handle"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"created_at"`
	Online    bool   `json:"online"`
}

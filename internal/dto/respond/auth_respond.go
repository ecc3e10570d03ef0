package respond

// LoginRespond 登录 / 注册成功后的响应
type LoginRespond struct {
	UserID      uint   `json:"user_id"`
	Handle      string `json:"handle"`
	Nickname    string `json:"nickname"`
	AccessToken string `json:"access_token"`
}

// HandleCheckRespond 登录名是否可注册
type HandleCheckRespond struct {
	Handle    string `json:"handle"`
	Available bool   `json:"available"`
}

// SecurityQuestionRespond 账号的安全问题，账号不存在或未设置时为空
type SecurityQuestionRespond struct {
	Question string `json:"question"`
}

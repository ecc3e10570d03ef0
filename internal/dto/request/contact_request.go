package request

// DeleteContactRequest 删除好友
type DeleteContactRequest struct {
	ContactID uint `json:"contact_id" binding:"required"`
}

// UpdateRemarkRequest 修改好友备注
type UpdateRemarkRequest struct {
	ContactID uint   `json:"contact_id" binding:"required"`
	Remark    string `json:"remark" binding:"max=64"`
}

// SearchUserRequest 搜索用户
type SearchUserRequest struct {
	Keyword string `form:"keyword" binding:"required,max=32"`
}

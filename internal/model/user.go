// Package model 定义数据库实体模型
package model

import "time"

// User 用户
// Handle 为登录名，全局唯一；PasswordHash 与 SecurityAnswerHash 由 credential.Verifier 生成
// 未设置安全问题时两列为空串，不能通过答案找回密码
type User struct {
	ID                 uint      `gorm:"primaryKey"`
	Handle             string    `gorm:"column:handle;uniqueIndex;type:varchar(32);not null;comment:登录名"`
	Nickname           string    `gorm:"column:nickname;type:varchar(32);not null;comment:昵称"`
	PasswordHash       string    `gorm:"column:password_hash;type:varchar(100);not null;comment:密码哈希"`
	SecurityQuestion   string    `gorm:"column:security_question;type:varchar(255);not null;default:'';comment:安全问题"`
	SecurityAnswerHash string    `gorm:"column:security_answer_hash;type:varchar(100);not null;default:'';comment:安全问题答案哈希"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName 昵称为空时回退到登录名
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Handle
}

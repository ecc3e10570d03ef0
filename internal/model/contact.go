package model

import "time"

// Contact 好友关系的一条有向边
// 好友关系总是成对存在：(A,B) 与 (B,A)
type Contact struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"column:user_id;uniqueIndex:idx_contact_pair;not null;comment:所属用户"`
	ContactUserID uint      `gorm:"column:contact_user_id;uniqueIndex:idx_contact_pair;index;not null;comment:联系人"`
	Remark        string    `gorm:"column:remark;type:varchar(64);comment:备注"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

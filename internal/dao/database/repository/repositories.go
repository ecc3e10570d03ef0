package repository

import (
	"gorm.io/gorm"
)

// Repositories 聚合所有 Repository 实例，Service 层通过它访问数据层
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	Contact       ContactRepository
	FriendRequest FriendRequestRepository
	Room          RoomRepository
	Message       MessageRepository
}

// NewRepositories 基于同一个 *gorm.DB 创建全部 Repository
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		Contact:       NewContactRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
		Room:          NewRoomRepository(db),
		Message:       NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行 fn
// fn 内只能使用 txRepos，返回错误时整体回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

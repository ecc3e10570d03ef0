// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
package repository

import (
	"presence_chat_server/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindByHandle(handle string) (*model.User, error)
	FindByIDs(ids []uint) ([]model.User, error)
	Create(user *model.User) error
	// UpdatePassword 写入新的密码哈希，返回影响行数
	UpdatePassword(id uint, passwordHash string) (int64, error)
	// Search 按登录名或昵称模糊查找，排除 excludeIDs
	Search(keyword string, excludeIDs []uint, limit int) ([]model.User, error)
}

// ContactRepository 好友关系数据访问接口
// 所有写操作都同时处理两个方向的边
type ContactRepository interface {
	Exists(userID, contactUserID uint) (bool, error)
	ExistsForShare(userID, contactUserID uint) (bool, error)
	FindByUserID(userID uint) ([]model.Contact, error)
	ContactIDs(userID uint) ([]uint, error)
	// CreatePair 插入 (a,b) 与 (b,a)，已存在则忽略
	CreatePair(a, b uint) error
	// DeletePair 删除 (a,b) 与 (b,a)，返回删除行数
	DeletePair(a, b uint) (int64, error)
	UpdateRemark(userID, contactUserID uint, remark string) (int64, error)
}

// FriendRequestRepository 好友申请数据访问接口
type FriendRequestRepository interface {
	FindByID(id uint) (*model.FriendRequest, error)
	// UpsertPending 按 (sender, receiver) 唯一键插入或把状态重置为 pending
	UpsertPending(senderID, receiverID uint) (*model.FriendRequest, error)
	UpdateStatus(id uint, status string) error
	// ListNotifications 收到的待处理申请 + 自己发出且已有结果的申请，按更新时间倒序
	ListNotifications(userID uint) ([]model.FriendRequest, error)
	// DeleteBySender 删除 sender 发出、状态为 status 的指定申请，返回删除行数
	DeleteBySender(id, senderID uint, status string) (int64, error)
}

// RoomRepository 聊天房间数据访问接口
type RoomRepository interface {
	FindByID(id uint) (*model.ChatRoom, error)
	// FindPrivate 查找 a 与 b 的私聊房间
	FindPrivate(a, b uint) (*model.ChatRoom, error)
	Create(room *model.ChatRoom) error
	// CreatePrivate 按 pair_key 创建私聊房间，已存在时返回已有房间
	CreatePrivate(a, b uint) (*model.ChatRoom, error)
	AddMembers(roomID uint, userIDs []uint) error
	IsMember(roomID, userID uint) (bool, error)
	MemberIDs(roomID uint) ([]uint, error)
	FindByUserID(userID uint) ([]model.ChatRoom, error)
	// Delete 删除房间及其消息、成员，需在事务中调用
	Delete(roomID uint) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	Create(msg *model.ChatMessage) error
	// FindRecent 按 (created_at, id) 倒序取最近 limit 条
	FindRecent(roomID uint, limit int) ([]model.ChatMessage, error)
	UnreadIDs(roomID, senderID uint) ([]uint, error)
	MarkRead(ids []uint) (int64, error)
}

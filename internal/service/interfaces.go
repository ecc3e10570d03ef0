// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"

	"presence_chat_server/internal/dto/request"
	"presence_chat_server/internal/dto/respond"
)

// UserService 用户注册、登录、资料与密码管理
type UserService interface {
	// Register 注册，成功后直接返回登录信息
	Register(ctx context.Context, req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login 登录名 + 密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// GetUserDetail 获取用户资料及在线状态
	GetUserDetail(ctx context.Context, userID uint) (*respond.UserDetailRespond, error)
	// CheckHandle 登录名是否可注册
	CheckHandle(ctx context.Context, handle string) (*respond.HandleCheckRespond, error)
	// SecurityQuestion 查询账号的安全问题
	SecurityQuestion(ctx context.Context, handle string) (*respond.SecurityQuestionRespond, error)
	// ResetPassword 回答安全问题后重置密码
	ResetPassword(ctx context.Context, req request.ResetPasswordRequest) error
	// ChangePassword 登录后修改密码
	ChangePassword(ctx context.Context, userID uint, req request.ChangePasswordRequest) error
}

// ContactService 好友关系与好友申请
type ContactService interface {
	// SendRequest 发起好友申请，重复发起幂等
	SendRequest(ctx context.Context, senderID, receiverID uint) (*respond.FriendRequestRespond, error)
	// Respond 被申请人同意或拒绝
	Respond(ctx context.Context, requestID, responderID uint, decision string) (*respond.FriendRequestRespond, error)
	// ListNotifications 好友通知列表
	ListNotifications(ctx context.Context, userID uint) ([]respond.FriendNotificationRespond, error)
	// Acknowledge 申请人确认处理结果
	Acknowledge(ctx context.Context, requestID, userID uint, kind string) error
	// DeleteContact 删除好友及私聊房间
	DeleteContact(ctx context.Context, userID, contactID uint) error
	// ListContacts 好友列表
	ListContacts(ctx context.Context, userID uint) ([]respond.ContactRespond, error)
	// UpdateRemark 修改好友备注
	UpdateRemark(ctx context.Context, userID, contactID uint, remark string) error
	// ContactIDs 好友 ID 列表
	ContactIDs(ctx context.Context, userID uint) ([]uint, error)
	// SearchUsers 搜索可添加的用户
	SearchUsers(ctx context.Context, userID uint, keyword string) ([]respond.UserBriefRespond, error)
}

// RoomService 聊天房间
type RoomService interface {
	// FindOrCreatePrivateRoom 打开与好友的私聊房间
	FindOrCreatePrivateRoom(ctx context.Context, userID, contactID uint) (*respond.RoomRespond, error)
	// CreateGroupRoom 创建群聊
	CreateGroupRoom(ctx context.Context, ownerID uint, name string, memberIDs []uint) (*respond.RoomRespond, error)
	// ListRooms 当前用户的房间列表
	ListRooms(ctx context.Context, userID uint) ([]respond.RoomRespond, error)
	// EnsureMember 校验房间成员资格
	EnsureMember(ctx context.Context, roomID, userID uint) error
}

// MessageService 消息历史与已读
type MessageService interface {
	// RecentHistory 最近消息，按时间升序
	RecentHistory(ctx context.Context, roomID uint, limit int) ([]respond.MessageRespond, error)
	// MarkReadForRoom 标记对方消息已读并通知对方
	MarkReadForRoom(ctx context.Context, roomID, readerID uint) ([]uint, error)
}

// SessionService 实时会话管理
type SessionService interface {
	// ForceLogout 关闭本人其他会话
	ForceLogout(ctx context.Context, userID uint, keepSessionID string) *respond.ForceLogoutRespond
	// Logout 关闭本人全部会话
	Logout(ctx context.Context, userID uint) *respond.ForceLogoutRespond
	// OnlineContacts 在线好友 ID
	OnlineContacts(ctx context.Context, userID uint) ([]uint, error)
}

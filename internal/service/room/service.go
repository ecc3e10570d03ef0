package room

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/model"
	"presence_chat_server/pkg/errorx"
)

// roomService 聊天房间业务逻辑实现
type roomService struct {
	repos *repository.Repositories
}

// NewRoomService 构造函数
func NewRoomService(repos *repository.Repositories) *roomService {
	return &roomService{repos: repos}
}

// EnsurePrivateRoom 在事务内返回 a、b 的私聊房间，不存在则创建并写入两名成员
// 第二个返回值表示本次是否新建
func EnsurePrivateRoom(txRepos *repository.Repositories, a, b uint) (*model.ChatRoom, bool, error) {
	room, err := txRepos.Room.FindPrivate(a, b)
	if err == nil {
		return room, false, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, false, err
	}
	room, err = txRepos.Room.CreatePrivate(a, b)
	if err != nil {
		return nil, false, err
	}
	if err := txRepos.Room.AddMembers(room.ID, []uint{a, b}); err != nil {
		return nil, false, err
	}
	return room, true, nil
}

// FindOrCreatePrivateRoom 打开与好友的私聊房间，两人必须是好友
// 好友校验与建房在同一事务内完成
func (s *roomService) FindOrCreatePrivateRoom(ctx context.Context, userID, contactID uint) (*respond.RoomRespond, error) {
	if userID == contactID || contactID == 0 {
		return nil, errorx.ErrInvalidParam
	}
	var room *model.ChatRoom
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		friends, txErr := txRepos.Contact.ExistsForShare(userID, contactID)
		if txErr != nil {
			return txErr
		}
		if !friends {
			return errorx.ErrNotFriends
		}
		r, created, txErr := EnsurePrivateRoom(txRepos, userID, contactID)
		if txErr != nil {
			return txErr
		}
		if created {
			zap.L().Info("private room created", zap.Uint("room", r.ID),
				zap.Uint("user", userID), zap.Uint("contact", contactID))
		}
		room = r
		return nil
	})
	if err != nil {
		if errors.Is(err, errorx.ErrNotFriends) {
			return nil, err
		}
		zap.L().Error("ensure private room error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := respond.RoomRespond{RoomID: room.ID, IsPrivate: true, MemberCount: 2, PartnerID: contactID}
	if partner, err := s.repos.User.FindByID(contactID); err == nil {
		rsp.PartnerNickname = partner.DisplayName()
	}
	return &rsp, nil
}

// CreateGroupRoom 创建群聊，创建者自动成为成员
// 成员不要求是好友，但必须是已注册用户
func (s *roomService) CreateGroupRoom(ctx context.Context, ownerID uint, name string, memberIDs []uint) (*respond.RoomRespond, error) {
	ids := uniqueIDs(append([]uint{ownerID}, memberIDs...))
	if len(ids) < 2 {
		return nil, errorx.New(errorx.CodeInvalidParam, "群聊至少需要两名成员")
	}
	users, err := s.repos.User.FindByIDs(ids)
	if err != nil {
		zap.L().Error("find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if len(users) != len(ids) {
		return nil, errorx.New(errorx.CodeUserNotExist, "部分成员不存在")
	}

	room := &model.ChatRoom{IsPrivate: false, Name: name, OwnerID: ownerID}
	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Room.Create(room); err != nil {
			return err
		}
		return txRepos.Room.AddMembers(room.ID, ids)
	})
	if err != nil {
		zap.L().Error("create group room error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RoomRespond{RoomID: room.ID, Name: name, MemberCount: len(ids)}, nil
}

// ListRooms 当前用户所在的全部房间，私聊房间附带对方信息
func (s *roomService) ListRooms(ctx context.Context, userID uint) ([]respond.RoomRespond, error) {
	rooms, err := s.repos.Room.FindByUserID(userID)
	if err != nil {
		zap.L().Error("find rooms error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	list := make([]respond.RoomRespond, 0, len(rooms))
	partnerIDs := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		members, err := s.repos.Room.MemberIDs(r.ID)
		if err != nil {
			zap.L().Error("find room members error", zap.Uint("room", r.ID), zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		item := respond.RoomRespond{RoomID: r.ID, IsPrivate: r.IsPrivate, Name: r.Name, MemberCount: len(members)}
		if r.IsPrivate {
			for _, m := range members {
				if m != userID {
					item.PartnerID = m
					partnerIDs = append(partnerIDs, m)
					break
				}
			}
		}
		list = append(list, item)
	}

	if len(partnerIDs) > 0 {
		users, err := s.repos.User.FindByIDs(partnerIDs)
		if err != nil {
			zap.L().Error("batch find users error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		names := make(map[uint]string, len(users))
		for i := range users {
			names[users[i].ID] = users[i].DisplayName()
		}
		for i := range list {
			if list[i].PartnerID != 0 {
				list[i].PartnerNickname = names[list[i].PartnerID]
			}
		}
	}
	return list, nil
}

// EnsureMember 校验用户是房间成员
func (s *roomService) EnsureMember(ctx context.Context, roomID, userID uint) error {
	ok, err := s.repos.Room.IsMember(roomID, userID)
	if err != nil {
		zap.L().Error("check room member error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if !ok {
		return errorx.ErrNotRoomMember
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

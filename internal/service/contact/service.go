package contact

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"presence_chat_server/internal/dao/database/repository"
	myredis "presence_chat_server/internal/dao/redis"
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/model"
	"presence_chat_server/internal/realtime"
	"presence_chat_server/internal/service/room"
	"presence_chat_server/pkg/constants"
	"presence_chat_server/pkg/enum/event_type_enum"
	"presence_chat_server/pkg/enum/friend_request_status_enum"
	"presence_chat_server/pkg/errorx"
)

const searchLimit = 20

// Notifier 向在线会话推送事件，房间删除后断开房间内的会话
type Notifier interface {
	Send(identity uint, event any) int
	CloseRoom(roomID uint) int
}

// Reachability 查询身份当前是否在线
type Reachability interface {
	IsReachable(identity uint) bool
}

// userContactService 好友关系与好友申请业务逻辑实现
type userContactService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	notifier Notifier
	online   Reachability

	// genMu 保护 generations，好友关系每次变更递增对应用户的版本
	genMu       sync.Mutex
	generations map[uint]uint64
}

// NewContactService 构造函数
// cache 为 nil 时不使用缓存，notifier / online 为 nil 时不推送、一律视为离线
func NewContactService(repos *repository.Repositories, cache myredis.AsyncCacheService,
	notifier Notifier, online Reachability) *userContactService {
	if cache == nil {
		cache = myredis.NewNoopCache()
	}
	return &userContactService{
		repos:       repos,
		cache:       cache,
		notifier:    notifier,
		online:      online,
		generations: make(map[uint]uint64),
	}
}

// SendRequest 发起好友申请，重复发起只会把状态重置为 pending
func (u *userContactService) SendRequest(ctx context.Context, senderID, receiverID uint) (*respond.FriendRequestRespond, error) {
	if senderID == receiverID {
		return nil, errorx.ErrSelfRequest
	}
	if _, err := u.repos.User.FindByID(receiverID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find receiver error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	friends, err := u.repos.Contact.Exists(senderID, receiverID)
	if err != nil {
		zap.L().Error("check contact error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if friends {
		return nil, errorx.ErrAlreadyFriends
	}

	req, err := u.repos.FriendRequest.UpsertPending(senderID, receiverID)
	if err != nil {
		zap.L().Error("upsert friend request error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	u.notify(receiverID, event_type_enum.NewFriendRequest)
	return &respond.FriendRequestRespond{RequestID: req.ID, Status: req.Status}, nil
}

// Respond 被申请人处理好友申请
// 同意时在同一事务里写入双向好友关系并创建私聊房间
// 重复提交相同决定直接返回当前状态，已处理的申请不能改判
func (u *userContactService) Respond(ctx context.Context, requestID, responderID uint, decision string) (*respond.FriendRequestRespond, error) {
	if !friend_request_status_enum.IsDecision(decision) {
		return nil, errorx.New(errorx.CodeInvalidParam, "decision 只能是 accepted 或 rejected")
	}

	var senderID uint
	repeated := false
	err := u.repos.Transaction(func(txRepos *repository.Repositories) error {
		req, err := txRepos.FriendRequest.FindByID(requestID)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.ErrRequestNotFound
			}
			return err
		}
		if req.ReceiverID != responderID {
			return errorx.New(errorx.CodeForbidden, "只有被申请人可以处理该申请")
		}
		if req.Status == decision {
			repeated = true
			return nil
		}
		if req.Status != friend_request_status_enum.PENDING {
			return errorx.ErrRequestNotFound
		}
		if err := txRepos.FriendRequest.UpdateStatus(req.ID, decision); err != nil {
			return err
		}
		senderID = req.SenderID
		if decision != friend_request_status_enum.ACCEPTED {
			return nil
		}
		if err := txRepos.Contact.CreatePair(req.SenderID, req.ReceiverID); err != nil {
			return err
		}
		_, _, err = room.EnsurePrivateRoom(txRepos, req.SenderID, req.ReceiverID)
		return err
	})
	if err != nil {
		return nil, u.businessError("respond friend request error", err)
	}
	if repeated {
		return &respond.FriendRequestRespond{RequestID: requestID, Status: decision}, nil
	}

	if decision == friend_request_status_enum.ACCEPTED {
		u.invalidate(ctx, senderID, responderID)
	}
	u.notify(senderID, event_type_enum.RequestResponded)
	return &respond.FriendRequestRespond{RequestID: requestID, Status: decision}, nil
}

// ListNotifications 收到的待处理申请和自己发出且已有结果的申请
func (u *userContactService) ListNotifications(ctx context.Context, userID uint) ([]respond.FriendNotificationRespond, error) {
	reqs, err := u.repos.FriendRequest.ListNotifications(userID)
	if err != nil {
		zap.L().Error("list notifications error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	otherIDs := make([]uint, 0, len(reqs))
	for _, r := range reqs {
		otherIDs = append(otherIDs, otherParty(r, userID))
	}
	names, err := u.displayNames(otherIDs)
	if err != nil {
		return nil, err
	}

	list := make([]respond.FriendNotificationRespond, 0, len(reqs))
	for _, r := range reqs {
		kind := friend_request_status_enum.SENT
		if r.ReceiverID == userID {
			kind = friend_request_status_enum.RECEIVED
		}
		other := otherParty(r, userID)
		list = append(list, respond.FriendNotificationRespond{
			RequestID:     r.ID,
			Kind:          kind,
			Status:        r.Status,
			OtherUserID:   other,
			OtherNickname: names[other],
			UpdatedAt:     r.UpdatedAt.Format(time.DateTime),
		})
	}
	return list, nil
}

// Acknowledge 申请人确认已看到处理结果，删除该申请
func (u *userContactService) Acknowledge(ctx context.Context, requestID, userID uint, kind string) error {
	status, ok := friend_request_status_enum.StatusOfSeen(kind)
	if !ok {
		return errorx.New(errorx.CodeInvalidParam, "kind 只能是 accepted_seen 或 rejected_seen")
	}
	rows, err := u.repos.FriendRequest.DeleteBySender(requestID, userID, status)
	if err != nil {
		zap.L().Error("acknowledge friend request error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if rows == 0 {
		return errorx.ErrRequestNotFound
	}
	return nil
}

// DeleteContact 解除好友关系，同时删除两人的私聊房间及其消息
// 提交后断开仍在该房间内的会话，已经不是好友时直接返回
func (u *userContactService) DeleteContact(ctx context.Context, userID, contactID uint) error {
	if userID == contactID {
		return errorx.ErrInvalidParam
	}
	var roomID uint
	err := u.repos.Transaction(func(txRepos *repository.Repositories) error {
		// 先删关系行，与建房事务里的加锁读互斥
		if _, err := txRepos.Contact.DeletePair(userID, contactID); err != nil {
			return err
		}
		r, err := txRepos.Room.FindPrivate(userID, contactID)
		if err != nil {
			if errorx.IsNotFound(err) {
				return nil
			}
			return err
		}
		roomID = r.ID
		return txRepos.Room.Delete(r.ID)
	})
	if err != nil {
		zap.L().Error("delete contact error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	u.invalidate(ctx, userID, contactID)
	if roomID != 0 && u.notifier != nil {
		if n := u.notifier.CloseRoom(roomID); n > 0 {
			zap.L().Info("closed sessions of deleted private room", zap.Uint("room", roomID), zap.Int("sessions", n))
		}
	}
	return nil
}

// ListContacts 好友列表，附带备注和在线状态
func (u *userContactService) ListContacts(ctx context.Context, userID uint) ([]respond.ContactRespond, error) {
	edges, err := u.repos.Contact.FindByUserID(userID)
	if err != nil {
		zap.L().Error("find contacts error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ContactUserID)
	}
	users, err := u.repos.User.FindByIDs(ids)
	if err != nil {
		zap.L().Error("batch find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	byID := make(map[uint]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	list := make([]respond.ContactRespond, 0, len(edges))
	for _, e := range edges {
		item := respond.ContactRespond{UserID: e.ContactUserID, Remark: e.Remark, Online: u.isOnline(e.ContactUserID)}
		if user, ok := byID[e.ContactUserID]; ok {
			item.Handle = user.Handle
			item.Nickname = user.DisplayName()
		}
		list = append(list, item)
	}
	return list, nil
}

// UpdateRemark 修改好友备注
func (u *userContactService) UpdateRemark(ctx context.Context, userID, contactID uint, remark string) error {
	rows, err := u.repos.Contact.UpdateRemark(userID, contactID, remark)
	if err != nil {
		zap.L().Error("update remark error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	if rows == 0 {
		exists, err := u.repos.Contact.Exists(userID, contactID)
		if err != nil {
			zap.L().Error("check contact error", zap.Error(err))
			return errorx.ErrServerBusy
		}
		if !exists {
			return errorx.ErrNotFriends
		}
	}
	return nil
}

// ContactIDs 好友 ID 列表，优先读 Redis 集合 contact_relation:user:<id>
// 缓存未命中或为空时回源数据库并异步回写
// 回写前后比较版本，期间关系有变更则放弃回写并删除已写入的集合
func (u *userContactService) ContactIDs(ctx context.Context, userID uint) ([]uint, error) {
	cacheKey := contactCacheKey(userID)
	members, err := u.cache.GetSetMembers(ctx, cacheKey)
	if err == nil && len(members) > 0 {
		ids := make([]uint, 0, len(members))
		for _, m := range members {
			id, convErr := strconv.ParseUint(m, 10, 64)
			if convErr != nil {
				zap.L().Warn("bad contact cache member", zap.String("key", cacheKey), zap.String("member", m))
				continue
			}
			ids = append(ids, uint(id))
		}
		return ids, nil
	}
	if err != nil {
		zap.L().Warn("read contact cache error", zap.String("key", cacheKey), zap.Error(err))
	}

	gen := u.generation(userID)
	ids, err := u.repos.Contact.ContactIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		args := make([]interface{}, 0, len(ids))
		for _, id := range ids {
			args = append(args, strconv.FormatUint(uint64(id), 10))
		}
		u.cache.SubmitTask(func() {
			if u.generation(userID) != gen {
				return
			}
			bg := context.Background()
			if err := u.cache.AddToSet(bg, cacheKey, args...); err != nil {
				zap.L().Warn("write contact cache error", zap.String("key", cacheKey), zap.Error(err))
				return
			}
			_ = u.cache.Expire(bg, cacheKey, time.Minute*constants.REDIS_TIMEOUT)
			if u.generation(userID) != gen {
				_ = u.cache.Delete(bg, cacheKey)
			}
		})
	}
	return ids, nil
}

// AreFriends 两人是否为好友
func (u *userContactService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	ok, err := u.repos.Contact.Exists(a, b)
	if err != nil {
		zap.L().Error("check contact error", zap.Error(err))
		return false, errorx.ErrServerBusy
	}
	return ok, nil
}

// SearchUsers 按登录名或昵称搜索用户，排除自己和已有好友
func (u *userContactService) SearchUsers(ctx context.Context, userID uint, keyword string) ([]respond.UserBriefRespond, error) {
	exclude, err := u.repos.Contact.ContactIDs(userID)
	if err != nil {
		zap.L().Error("find contact ids error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	exclude = append(exclude, userID)
	users, err := u.repos.User.Search(keyword, exclude, searchLimit)
	if err != nil {
		zap.L().Error("search users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	list := make([]respond.UserBriefRespond, 0, len(users))
	for i := range users {
		list = append(list, respond.UserBriefRespond{
			UserID:   users[i].ID,
			Handle:   users[i].Handle,
			Nickname: users[i].DisplayName(),
		})
	}
	return list, nil
}

func (u *userContactService) displayNames(ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	users, err := u.repos.User.FindByIDs(ids)
	if err != nil {
		zap.L().Error("batch find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names, nil
}

func (u *userContactService) invalidate(ctx context.Context, ids ...uint) {
	keys := make([]string, 0, len(ids))
	u.genMu.Lock()
	for _, id := range ids {
		u.generations[id]++
		keys = append(keys, contactCacheKey(id))
	}
	u.genMu.Unlock()
	u.cache.SubmitTask(func() {
		bg := context.Background()
		for _, key := range keys {
			if err := u.cache.Delete(bg, key); err != nil {
				zap.L().Warn("delete contact cache error", zap.String("key", key), zap.Error(err))
			}
		}
	})
}

func (u *userContactService) generation(userID uint) uint64 {
	u.genMu.Lock()
	defer u.genMu.Unlock()
	return u.generations[userID]
}

func (u *userContactService) notify(identity uint, eventType string) {
	if u.notifier == nil {
		return
	}
	u.notifier.Send(identity, realtime.NewMarkerEvent(eventType))
}

func (u *userContactService) isOnline(identity uint) bool {
	return u.online != nil && u.online.IsReachable(identity)
}

// businessError 业务错误原样返回，其余记录日志后统一为服务繁忙
func (u *userContactService) businessError(msg string, err error) error {
	switch errorx.GetCode(err) {
	case errorx.CodeDBError, errorx.CodeNotFound, errorx.CodeServerBusy:
		zap.L().Error(msg, zap.Error(err))
		return errorx.ErrServerBusy
	}
	return err
}

func otherParty(r model.FriendRequest, userID uint) uint {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

func contactCacheKey(userID uint) string {
	return constants.CONTACT_RELATION_KEY + strconv.FormatUint(uint64(userID), 10)
}

package message

import (
	"context"
	"time"

	"go.uber.org/zap"

	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/dto/respond"
	"presence_chat_server/internal/model"
	"presence_chat_server/internal/realtime"
	"presence_chat_server/pkg/constants"
	"presence_chat_server/pkg/errorx"
)

// Notifier 向某个身份的全部在线会话推送事件
type Notifier interface {
	Send(identity uint, event any) int
}

// messageService 消息存储与已读回执
// 实现 realtime.MessageCore
type messageService struct {
	repos    *repository.Repositories
	registry *realtime.Registry
	receipts *realtime.ReceiptTracker
	notifier Notifier
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, registry *realtime.Registry,
	receipts *realtime.ReceiptTracker, notifier Notifier) *messageService {
	if receipts == nil {
		receipts = realtime.NewReceiptTracker()
	}
	return &messageService{repos: repos, registry: registry, receipts: receipts, notifier: notifier}
}

// Append 保存一条未读消息
// 房间不存在或发送者已不是成员时拒绝写入
func (m *messageService) Append(ctx context.Context, roomID, senderID uint, content string) (*respond.MessageRespond, error) {
	member, err := m.repos.Room.IsMember(roomID, senderID)
	if err != nil {
		zap.L().Error("check room member error", zap.Uint("room", roomID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !member {
		return nil, errorx.ErrNotRoomMember
	}
	sender, err := m.repos.User.FindByID(senderID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find sender error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	msg := &model.ChatMessage{RoomID: roomID, SenderID: senderID, Content: content}
	if err := m.repos.Message.Create(msg); err != nil {
		zap.L().Error("create message error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toRespond(msg, sender.DisplayName())
	return &rsp, nil
}

// RecentHistory 最近 limit 条消息，按时间升序
func (m *messageService) RecentHistory(ctx context.Context, roomID uint, limit int) ([]respond.MessageRespond, error) {
	if limit <= 0 {
		limit = constants.HISTORY_LIMIT
	}
	if limit > constants.MAX_HISTORY_LIMIT {
		limit = constants.MAX_HISTORY_LIMIT
	}
	messages, err := m.repos.Message.FindRecent(roomID, limit)
	if err != nil {
		zap.L().Error("find history error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	senderIDs := make([]uint, 0, len(messages))
	for _, msg := range messages {
		senderIDs = append(senderIDs, msg.SenderID)
	}
	users, err := m.repos.User.FindByIDs(senderIDs)
	if err != nil {
		zap.L().Error("batch find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	names := make(map[uint]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	list := make([]respond.MessageRespond, len(messages))
	for i := range messages {
		// 查询结果为倒序
		list[len(messages)-1-i] = toRespond(&messages[i], names[messages[i].SenderID])
	}
	return list, nil
}

// MarkRead 把房间内对方发给 reader 的未读消息置为已读，结果记入回执
// 房间内除 reader 外恰好一个在线身份时才有作者，否则为空操作
func (m *messageService) MarkRead(ctx context.Context, roomID, readerID uint) error {
	author, ok := m.onlineAuthor(roomID, readerID)
	if !ok {
		return nil
	}
	_, err := m.markFrom(roomID, readerID, author)
	return err
}

// ReadIdsByAuthor 取出尚未通知作者的已读 ID
// 同一读者多个会话的 MarkRead 结果会累积，取出后清空
func (m *messageService) ReadIdsByAuthor(roomID, readerID, authorID uint) []uint {
	return m.receipts.Drain(roomID, readerID, authorID)
}

// MarkReadForRoom HTTP 标记已读
// 对方不在房间时，私聊房间以另一名成员作为作者
// 返回本次置为已读的 ID，并通知作者
func (m *messageService) MarkReadForRoom(ctx context.Context, roomID, readerID uint) ([]uint, error) {
	author, ok := m.onlineAuthor(roomID, readerID)
	if !ok {
		var err error
		author, ok, err = m.privatePartner(roomID, readerID)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return []uint{}, nil
	}

	if _, err := m.markFrom(roomID, readerID, author); err != nil {
		return nil, err
	}
	ids := m.receipts.Drain(roomID, readerID, author)
	if len(ids) > 0 && m.notifier != nil {
		m.notifier.Send(author, realtime.NewReadStatusUpdateEvent(ids))
	}
	return ids, nil
}

func (m *messageService) markFrom(roomID, readerID, authorID uint) ([]uint, error) {
	var ids []uint
	err := m.repos.Transaction(func(txRepos *repository.Repositories) error {
		unread, err := txRepos.Message.UnreadIDs(roomID, authorID)
		if err != nil {
			return err
		}
		if _, err := txRepos.Message.MarkRead(unread); err != nil {
			return err
		}
		ids = unread
		return nil
	})
	if err != nil {
		zap.L().Error("mark read error", zap.Uint("room", roomID), zap.Uint("reader", readerID), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	m.receipts.Record(roomID, readerID, authorID, ids)
	return ids, nil
}

func (m *messageService) onlineAuthor(roomID, readerID uint) (uint, bool) {
	if m.registry == nil {
		return 0, false
	}
	var author uint
	others := 0
	for _, id := range m.registry.IdentitiesIn(roomID) {
		if id == readerID {
			continue
		}
		author = id
		others++
	}
	return author, others == 1
}

func (m *messageService) privatePartner(roomID, readerID uint) (uint, bool, error) {
	r, err := m.repos.Room.FindByID(roomID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return 0, false, errorx.New(errorx.CodeNotFound, "房间不存在")
		}
		zap.L().Error("find room error", zap.Error(err))
		return 0, false, errorx.ErrServerBusy
	}
	if !r.IsPrivate {
		return 0, false, nil
	}
	members, err := m.repos.Room.MemberIDs(roomID)
	if err != nil {
		zap.L().Error("find room members error", zap.Error(err))
		return 0, false, errorx.ErrServerBusy
	}
	for _, id := range members {
		if id != readerID {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func toRespond(msg *model.ChatMessage, nickname string) respond.MessageRespond {
	return respond.MessageRespond{
		ID:             msg.ID,
		RoomID:         msg.RoomID,
		SenderID:       msg.SenderID,
		SenderNickname: nickname,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt.Format(time.DateTime),
		IsRead:         msg.IsRead,
	}
}

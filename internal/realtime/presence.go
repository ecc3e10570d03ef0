package realtime

import (
	"context"
	"strconv"
	"time"

	myredis "presence_chat_server/internal/dao/redis"
	"presence_chat_server/internal/infrastructure/mq"
	"presence_chat_server/pkg/constants"
	"presence_chat_server/pkg/enum/presence_status_enum"

	"go.uber.org/zap"
)

// ContactSource 提供某身份的好友 ID 列表
type ContactSource interface {
	ContactIDs(ctx context.Context, identity uint) ([]uint, error)
}

// Presence 在线状态广播
// 只在 不可达<->可达 跃迁时通知在线好友，同时镜像到 Redis 并发布到消息队列
type Presence struct {
	registry   *Registry
	dispatcher *Dispatcher
	contacts   ContactSource
	cache      myredis.AsyncCacheService
	publisher  mq.PresencePublisher
}

func NewPresence(registry *Registry, dispatcher *Dispatcher, contacts ContactSource,
	cache myredis.AsyncCacheService, publisher mq.PresencePublisher) *Presence {
	if cache == nil {
		cache = myredis.NewNoopCache()
	}
	if publisher == nil {
		publisher = mq.NoopPublisher{}
	}
	return &Presence{
		registry:   registry,
		dispatcher: dispatcher,
		contacts:   contacts,
		cache:      cache,
		publisher:  publisher,
	}
}

// Online identity 刚变为可达
func (p *Presence) Online(ctx context.Context, identity uint) {
	p.broadcast(ctx, identity, presence_status_enum.ONLINE)
}

// Offline identity 刚变为不可达
func (p *Presence) Offline(ctx context.Context, identity uint) {
	p.broadcast(ctx, identity, presence_status_enum.OFFLINE)
}

// OnlineContacts 在线的好友 ID
func (p *Presence) OnlineContacts(ctx context.Context, identity uint) ([]uint, error) {
	ids, err := p.contacts.ContactIDs(ctx, identity)
	if err != nil {
		return nil, err
	}
	return p.registry.ReachableAmong(ids), nil
}

// Reset 进程启动时清空 Redis 中残留的在线集合
func (p *Presence) Reset(ctx context.Context) {
	if err := p.cache.Delete(ctx, constants.PRESENCE_ONLINE_KEY); err != nil {
		zap.L().Warn("reset presence mirror failed", zap.Error(err))
	}
}

func (p *Presence) broadcast(ctx context.Context, identity uint, status string) {
	friendIDs, err := p.contacts.ContactIDs(ctx, identity)
	if err != nil {
		zap.L().Error("load contacts for presence failed", zap.Uint("identity", identity), zap.Error(err))
	} else {
		event := NewStatusChangeEvent(identity, status)
		for _, friend := range p.registry.ReachableAmong(friendIDs) {
			p.dispatcher.Send(friend, event)
		}
	}
	zap.L().Info("presence transition", zap.Uint("identity", identity), zap.String("status", status))
	p.mirror(identity, status)
}

// mirror 异步同步到 Redis 与消息队列，失败只记录日志
// Redis 集合按执行时刻的注册表状态写入，乱序执行也能收敛
func (p *Presence) mirror(identity uint, status string) {
	at := time.Now()
	p.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		member := strconv.FormatUint(uint64(identity), 10)
		var err error
		if p.registry.IsReachable(identity) {
			err = p.cache.AddToSet(ctx, constants.PRESENCE_ONLINE_KEY, member)
		} else {
			err = p.cache.RemoveFromSet(ctx, constants.PRESENCE_ONLINE_KEY, member)
		}
		if err != nil {
			zap.L().Warn("presence mirror to redis failed", zap.Uint("identity", identity), zap.Error(err))
		}

		if err = p.publisher.Publish(ctx, mq.PresenceEvent{UserID: identity, Status: status, At: at}); err != nil {
			zap.L().Warn("publish presence event failed", zap.Uint("identity", identity), zap.Error(err))
		}
	})
}

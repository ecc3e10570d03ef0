// Package mq 把在线状态变化发布到外部消息队列
package mq

import (
	"context"
	"time"
)

// PresenceEvent 一次在线状态跃迁
type PresenceEvent struct {
	UserID uint      `json:"userId"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// PresencePublisher 在线状态发布接口
type PresencePublisher interface {
	Publish(ctx context.Context, event PresenceEvent) error
	Close() error
}

// NoopPublisher messageMode 为 channel 时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PresenceEvent) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }

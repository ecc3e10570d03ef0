package redis

import (
	"context"
	"time"
)

// NoopCache Redis 关闭时使用的空实现
// 读操作总是未命中，任务同步执行
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (NoopCache) Get(context.Context, string) (string, error)              { return "", nil }
func (NoopCache) Delete(context.Context, string) error                     { return nil }
func (NoopCache) Exists(context.Context, string) (bool, error)             { return false, nil }
func (NoopCache) Expire(context.Context, string, time.Duration) error      { return nil }
func (NoopCache) AddToSet(context.Context, string, ...interface{}) error   { return nil }
func (NoopCache) GetSetMembers(context.Context, string) ([]string, error)  { return nil, nil }
func (NoopCache) RemoveFromSet(context.Context, string, ...interface{}) error {
	return nil
}

func (NoopCache) SubmitTask(action func()) {
	if action != nil {
		action()
	}
}

func (NoopCache) Close() error { return nil }

var _ AsyncCacheService = NoopCache{}

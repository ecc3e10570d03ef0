// Package redis 定义缓存服务接口及其 Redis 实现
// Service 层依赖接口，Redis 关闭时注入 NoopCache
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
type CacheService interface {
	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
	// Exists 判断键是否存在
	Exists(ctx context.Context, key string) (bool, error)
	// Expire 刷新过期时间
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// AddToSet 向集合添加成员
	AddToSet(ctx context.Context, key string, members ...interface{}) error
	// GetSetMembers 获取集合中的所有成员
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	// RemoveFromSet 从集合中移除成员
	RemoveFromSet(ctx context.Context, key string, members ...interface{}) error
}

// AsyncCacheService 在 CacheService 之上提供异步任务提交
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务，队列满时同步执行
	SubmitTask(action func())
	// Close 停止 Worker 并释放连接
	Close() error
}

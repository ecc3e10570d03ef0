package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"presence_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache 同时实现 CacheService 与 AsyncCacheService
// 只需要同步读写的模块声明 CacheService 依赖即可
type RedisCache struct {
	client   *redis.Client
	taskChan chan func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRedisCache 创建 Redis 缓存实例并启动 Worker Pool
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	rc.wg.Add(workerNum)
	for i := 0; i < workerNum; i++ {
		go rc.startWorker()
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

func (r *RedisCache) startWorker() {
	defer r.wg.Done()
	for task := range r.taskChan {
		r.runTask(task)
	}
}

// runTask 单个任务 panic 不影响 Worker 继续消费
func (r *RedisCache) runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink key %s", key)
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, errorx.Wrapf(err, errorx.CodeCacheError, "redis exists key %s", key)
	}
	return n == 1, nil
}

func (r *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis expire key %s", key)
	}
	return nil
}

func (r *RedisCache) AddToSet(ctx context.Context, key string, members ...interface{}) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SAdd(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis sadd key %s", key)
	}
	return nil
}

func (r *RedisCache) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis smembers key %s", key)
	}
	return members, nil
}

func (r *RedisCache) RemoveFromSet(ctx context.Context, key string, members ...interface{}) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SRem(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis srem key %s", key)
	}
	return nil
}

// SubmitTask 提交异步缓存任务
// 通道满时降级为同步执行，关闭后提交的任务直接丢弃
func (r *RedisCache) SubmitTask(action func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		zap.L().Warn("Redis cache closed, task dropped")
		return
	}
	select {
	case r.taskChan <- action:
	default:
		zap.L().Warn("Redis cache task channel full, executing synchronously")
		r.runTask(action)
	}
}

// Close 等待队列中的任务执行完后关闭连接
func (r *RedisCache) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.taskChan)
	r.mu.Unlock()

	r.wg.Wait()
	return r.client.Close()
}

var _ AsyncCacheService = (*RedisCache)(nil)

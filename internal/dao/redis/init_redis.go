package redis

import (
	"context"
	"strconv"
	"time"

	"presence_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	workerNum    = 15
	taskChanSize = 3000
)

// Init 按配置创建缓存服务
// 未启用或连接失败时返回 NoopCache，上层逻辑不受影响
func Init(cfg *config.RedisConfig) AsyncCacheService {
	if cfg == nil || !cfg.Enabled {
		zap.L().Info("redis disabled, using noop cache")
		return NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50,
		MinIdleConns: workerNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis ping failed, falling back to noop cache", zap.Error(err))
		_ = client.Close()
		return NewNoopCache()
	}

	return NewRedisCache(client, workerNum, taskChanSize)
}

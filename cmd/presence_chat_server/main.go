package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presence_chat_server/internal/config"
	"presence_chat_server/internal/dao/database"
	myredis "presence_chat_server/internal/dao/redis"
	"presence_chat_server/internal/handler"
	"presence_chat_server/internal/https_server"
	"presence_chat_server/internal/infrastructure/credential"
	"presence_chat_server/internal/infrastructure/logger"
	"presence_chat_server/internal/infrastructure/mq"
	"presence_chat_server/internal/service"
	"presence_chat_server/pkg/util/jwt"
	"presence_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	mode := os.Getenv("APP_MODE")
	if mode == "" {
		mode = "dev"
	}
	if err := logger.Init(&conf.LogConfig, mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功", zap.String("mode", mode))

	// 3. 初始化 ID 生成器与 JWT
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry)

	// 4. 初始化数据库
	repos := database.Init()

	// 5. 初始化 Redis 与 Kafka，不可用时降级为空实现
	cache := myredis.Init(&conf.RedisConfig)
	publisher := mq.Init(&conf.KafkaConfig)

	// 6. 初始化 Service 层与实时核心
	svc := service.NewServices(repos, cache, publisher, credential.NewBcryptVerifier(0), &conf.PresenceConfig)
	// 上次进程残留的在线集合作废
	svc.Hub.Presence().Reset(context.Background())
	zap.L().Info("Service 层初始化成功")

	// 7. 初始化 Handler 与 HTTP 服务器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}
	handlers := handler.NewHandlers(svc, conf.PresenceConfig.MaxIdleMinutes)
	engine := https_server.Init(handlers, &conf.MainConfig)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		zap.L().Error("close presence publisher error", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		zap.L().Error("close cache error", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}

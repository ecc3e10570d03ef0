// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称
	Host     string `toml:"host"`     // 监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 监听端口，如 8000
	ForceTLS bool   `toml:"forceTLS"` // 是否启用 HTTPS 重定向中间件
}

// DatabaseConfig 关系型数据库连接配置
// Driver 取值 mysql / postgres / sqlite
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	Path         string `toml:"path"` // sqlite 文件路径，":memory:" 表示内存库
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"` // 关闭时联系人缓存和在线集合镜像均降级为空实现
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 配置，仅用于发布在线状态事件
type KafkaConfig struct {
	MessageMode   string        `toml:"messageMode"`   // "channel" 不发布，"kafka" 发布到 PresenceTopic
	HostPort      string        `toml:"hostPort"`      // 如 "localhost:9092"，多个地址用逗号分隔
	PresenceTopic string        `toml:"presenceTopic"` // 在线状态主题
	Timeout       time.Duration `toml:"timeout"`       // 写超时（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret            string `toml:"secret"`            // 签名密钥
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 节点 ID，范围 0-1023
}

// PresenceConfig 在线状态与会话相关配置
type PresenceConfig struct {
	RejectSameOrigin bool `toml:"rejectSameOrigin"` // 同一来源同一通道重复连接时拒绝
	HistoryLimit     int  `toml:"historyLimit"`     // 进入房间时推送的历史消息条数
	MaxIdleMinutes   int  `toml:"maxIdleMinutes"`   // 连接无任何帧的最长时间
}

// Config 应用程序总配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	PresenceConfig  `toml:"presenceConfig"`
}

var config *Config

// LoadConfig 从多个候选路径加载配置文件，找到第一个可用的即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时加载配置文件，缺省项由 applyDefaults 补齐
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		config.applyDefaults()
	}
	return config
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "presence_chat_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.Driver == "sqlite" && c.Path == "" {
		c.Path = "presence_chat.db"
	}
	if c.LogPath == "" {
		c.LogPath = "logs"
	}
	if c.FileName == "" {
		c.FileName = "app.log"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.PresenceTopic == "" {
		c.PresenceTopic = "presence"
	}
	if c.Timeout == 0 {
		c.Timeout = 1
	}
	if c.Secret == "" {
		c.Secret = "change-me-presence-chat-secret"
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60 * 24
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
	if c.MaxIdleMinutes <= 0 {
		c.MaxIdleMinutes = 10
	}
}

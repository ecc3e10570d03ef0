// Package database 负责建立关系型数据库连接、迁移表结构并组装 Repository 层
// 支持 mysql / postgres / sqlite 三种驱动
package database

import (
	"fmt"
	"strings"

	"presence_chat_server/internal/config"
	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/model"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init 按全局配置连接数据库并返回 Repository 聚合
// 连接或迁移失败直接退出进程
func Init() *repository.Repositories {
	conf := config.GetConfig()

	db, err := Open(&conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("open database failed", zap.String("driver", conf.Driver), zap.Error(err))
	}
	if err = Migrate(db); err != nil {
		zap.L().Fatal("migrate database failed", zap.Error(err))
	}
	zap.L().Info("database ready", zap.String("driver", conf.Driver))

	return repository.NewRepositories(db)
}

// Open 根据 Driver 选择 gorm 方言并建立连接
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	driver := driverName(cfg.Driver)
	dialector, err := dialectorOf(driver, cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// sqlite 只允许单写，内存库还要求所有查询走同一连接
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate 自动迁移全部表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Contact{},
		&model.FriendRequest{},
		&model.ChatRoom{},
		&model.ChatRoomMember{},
		&model.ChatMessage{},
	)
}

// driverName 统一大小写，未配置时使用 sqlite
func driverName(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return "sqlite"
	}
	return driver
}

func dialectorOf(driver string, cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DatabaseName)
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

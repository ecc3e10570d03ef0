// Package databasetest 为各层测试提供独立的 sqlite 内存库
package databasetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"presence_chat_server/internal/config"
	"presence_chat_server/internal/dao/database"
	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/model"
)

var seq atomic.Int64

// NewRepositories 每次调用创建一个全新的内存库并完成迁移
func NewRepositories(t testing.TB) *repository.Repositories {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: dsn})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return repository.NewRepositories(db)
}

// CreateUser 直接写入一个用户，密码哈希为占位值
func CreateUser(t testing.TB, repos *repository.Repositories, handle string) *model.User {
	t.Helper()
	user := &model.User{Handle: handle, Nickname: handle + "_nick", PasswordHash: "x"}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("create user %s: %v", handle, err)
	}
	return user
}

// MakeFriends 直接写入双向好友关系
func MakeFriends(t testing.TB, repos *repository.Repositories, a, b uint) {
	t.Helper()
	if err := repos.Contact.CreatePair(a, b); err != nil {
		t.Fatalf("create contact pair: %v", err)
	}
}

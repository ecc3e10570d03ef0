package database

import (
	"testing"

	"presence_chat_server/internal/config"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: "file:init_test?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"users", "contacts", "friend_requests", "chat_rooms", "chat_room_members", "chat_messages"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("table %s missing after migrate", table)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenDefaultsToSingleConnSQLite(t *testing.T) {
	for _, driver := range []string{"", "SQLite"} {
		db, err := Open(&config.DatabaseConfig{Driver: driver, Path: "file:init_default_test?mode=memory&cache=shared"})
		if err != nil {
			t.Fatalf("open %q: %v", driver, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("db: %v", err)
		}
		if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
			t.Fatalf("driver %q max open conns = %d, want 1", driver, got)
		}
		_ = sqlDB.Close()
	}
}

package repository_test

import (
	"testing"

	"presence_chat_server/internal/dao/database/databasetest"
	"presence_chat_server/internal/model"
	"presence_chat_server/pkg/errorx"
)

func TestCreatePrivateIsUniquePerPair(t *testing.T) {
	repos := databasetest.NewRepositories(t)

	first, err := repos.Room.CreatePrivate(3, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repos.Room.CreatePrivate(1, 3)
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if first.ID == 0 || first.ID != second.ID {
		t.Fatalf("rooms %d and %d, want the same room", first.ID, second.ID)
	}
	if first.PairKey == nil || *first.PairKey != "1:3" || !first.IsPrivate {
		t.Fatalf("room = %+v", first)
	}

	found, err := repos.Room.FindPrivate(1, 3)
	if err != nil || found.ID != first.ID {
		t.Fatalf("find private = %+v %v", found, err)
	}
	if _, err := repos.Room.FindPrivate(1, 4); !errorx.IsNotFound(err) {
		t.Fatalf("missing pair: %v", err)
	}
}

func TestGroupRoomsKeepNullPairKey(t *testing.T) {
	repos := databasetest.NewRepositories(t)
	for i := 0; i < 2; i++ {
		room := &model.ChatRoom{Name: "g", OwnerID: 1}
		if err := repos.Room.Create(room); err != nil {
			t.Fatalf("create group %d: %v", i, err)
		}
		saved, err := repos.Room.FindByID(room.ID)
		if err != nil {
			t.Fatal(err)
		}
		if saved.IsPrivate || saved.PairKey != nil {
			t.Fatalf("group room = %+v", saved)
		}
	}
}

func TestDeleteRoomRemovesChildren(t *testing.T) {
	repos := databasetest.NewRepositories(t)
	a := databasetest.CreateUser(t, repos, "alice")
	b := databasetest.CreateUser(t, repos, "bob")

	room, err := repos.Room.CreatePrivate(a.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.Room.AddMembers(room.ID, []uint{a.ID, b.ID, a.ID}); err != nil {
		t.Fatalf("add members: %v", err)
	}
	if err := repos.Message.Create(&model.ChatMessage{RoomID: room.ID, SenderID: a.ID, Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	ids, _ := repos.Room.MemberIDs(room.ID)
	if len(ids) != 2 {
		t.Fatalf("members = %v", ids)
	}

	if err := repos.Room.Delete(room.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ids, _ := repos.Room.MemberIDs(room.ID); len(ids) != 0 {
		t.Fatalf("members left = %v", ids)
	}
	if msgs, _ := repos.Message.FindRecent(room.ID, 10); len(msgs) != 0 {
		t.Fatalf("messages left = %d", len(msgs))
	}
	if _, err := repos.Room.FindByID(room.ID); !errorx.IsNotFound(err) {
		t.Fatalf("room still present: %v", err)
	}
}

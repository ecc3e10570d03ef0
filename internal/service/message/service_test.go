package message

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"presence_chat_server/internal/dao/database/databasetest"
	"presence_chat_server/internal/dao/database/repository"
	"presence_chat_server/internal/model"
	"presence_chat_server/internal/realtime"
	"presence_chat_server/internal/service/room"
	"presence_chat_server/pkg/errorx"
)

type nopConn struct{}

func (nopConn) WriteMessage([]byte) error { return nil }
func (nopConn) Close() error              { return nil }

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[uint][]any
}

func (r *recordingNotifier) Send(identity uint, event any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = make(map[uint][]any)
	}
	r.sent[identity] = append(r.sent[identity], event)
	return 1
}

type fixture struct {
	repos    *repository.Repositories
	registry *realtime.Registry
	notifier *recordingNotifier
	svc      *messageService
	u1, u2   *model.User
	roomID   uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := databasetest.NewRepositories(t)
	f := &fixture{
		repos:    repos,
		registry: realtime.NewRegistry(false),
		notifier: &recordingNotifier{},
		u1:       databasetest.CreateUser(t, repos, "u1"),
		u2:       databasetest.CreateUser(t, repos, "u2"),
	}
	f.svc = NewMessageService(repos, f.registry, realtime.NewReceiptTracker(), f.notifier)
	err := repos.Transaction(func(txRepos *repository.Repositories) error {
		r, _, err := room.EnsurePrivateRoom(txRepos, f.u1.ID, f.u2.ID)
		if err == nil {
			f.roomID = r.ID
		}
		return err
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return f
}

func (f *fixture) join(t *testing.T, identity uint) {
	t.Helper()
	if _, _, err := f.registry.Register(identity, nopConn{}, "", f.roomID); err != nil {
		t.Fatalf("register %d: %v", identity, err)
	}
}

func TestRecentHistoryIsAscendingAndBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := f.svc.Append(ctx, f.roomID, f.u1.ID, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	history, err := f.svc.RecentHistory(ctx, f.roomID, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("len = %d, want 3", len(history))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if history[i].Content != want {
			t.Fatalf("history[%d] = %q, want %q", i, history[i].Content, want)
		}
	}
	if history[0].SenderNickname != f.u1.Nickname || history[0].IsRead {
		t.Fatalf("unexpected message %+v", history[0])
	}
}

func TestMarkReadProducesExactDeltaOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var want []uint
	for i := 0; i < 4; i++ {
		msg, err := f.svc.Append(ctx, f.roomID, f.u2.ID, fmt.Sprintf("hello %d", i))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		want = append(want, msg.ID)
	}
	if _, err := f.svc.Append(ctx, f.roomID, f.u1.ID, "mine"); err != nil {
		t.Fatalf("append own: %v", err)
	}
	f.join(t, f.u1.ID)
	f.join(t, f.u2.ID)

	if err := f.svc.MarkRead(ctx, f.roomID, f.u1.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	got := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("delta = %v, want %v", got, want)
	}
	if again := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID); len(again) != 0 {
		t.Fatalf("second drain = %v, want empty", again)
	}

	if err := f.svc.MarkRead(ctx, f.roomID, f.u1.ID); err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if again := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID); len(again) != 0 {
		t.Fatalf("nothing unread left, got %v", again)
	}
}

func TestMarkReadFromTwoReaderSessionsKeepsDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var want []uint
	for i := 0; i < 4; i++ {
		msg, err := f.svc.Append(ctx, f.roomID, f.u2.ID, fmt.Sprintf("hello %d", i))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		want = append(want, msg.ID)
	}
	f.join(t, f.u1.ID)
	f.join(t, f.u1.ID)
	f.join(t, f.u2.ID)

	// 两个会话先后标记，第二次没有新的未读
	for i := 0; i < 2; i++ {
		if err := f.svc.MarkRead(ctx, f.roomID, f.u1.ID); err != nil {
			t.Fatalf("mark read %d: %v", i, err)
		}
	}
	first := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID)
	second := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID)
	if fmt.Sprint(first) != fmt.Sprint(want) || len(second) != 0 {
		t.Fatalf("drains = %v then %v, want %v then empty", first, second, want)
	}
}

func TestAppendRequiresRoomMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	outsider := databasetest.CreateUser(t, f.repos, "u3")

	if _, err := f.svc.Append(ctx, f.roomID, outsider.ID, "let me in"); errorx.GetCode(err) != errorx.CodeNotRoomMember {
		t.Fatalf("outsider err = %v", err)
	}
	if err := f.repos.Room.Delete(f.roomID); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	if _, err := f.svc.Append(ctx, f.roomID, f.u1.ID, "still here"); errorx.GetCode(err) != errorx.CodeNotRoomMember {
		t.Fatalf("deleted room err = %v", err)
	}
	history, err := f.svc.RecentHistory(ctx, f.roomID, 10)
	if err != nil || len(history) != 0 {
		t.Fatalf("history = %v err=%v", history, err)
	}
}

func TestMarkReadWithoutPartnerIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Append(ctx, f.roomID, f.u2.ID, "while you were away"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.join(t, f.u1.ID)

	if err := f.svc.MarkRead(ctx, f.roomID, f.u1.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := f.svc.ReadIdsByAuthor(f.roomID, f.u1.ID, f.u2.ID); len(got) != 0 {
		t.Fatalf("delta = %v, want empty", got)
	}
	unread, _ := f.repos.Message.UnreadIDs(f.roomID, f.u2.ID)
	if len(unread) != 1 {
		t.Fatalf("message should stay unread, got %v", unread)
	}
}

func TestMarkReadForRoomNotifiesAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg, err := f.svc.Append(ctx, f.roomID, f.u2.ID, "ping")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	ids, err := f.svc.MarkReadForRoom(ctx, f.roomID, f.u1.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if len(ids) != 1 || ids[0] != msg.ID {
		t.Fatalf("ids = %v", ids)
	}
	events := f.notifier.sent[f.u2.ID]
	if len(events) != 1 {
		t.Fatalf("author events = %v", events)
	}
	update, ok := events[0].(realtime.ReadStatusUpdateEvent)
	if !ok || len(update.MessageIDs) != 1 || update.MessageIDs[0] != msg.ID {
		t.Fatalf("unexpected event %#v", events[0])
	}

	ids, err = f.svc.MarkReadForRoom(ctx, f.roomID, f.u1.ID)
	if err != nil || len(ids) != 0 {
		t.Fatalf("second call = %v err=%v", ids, err)
	}
}

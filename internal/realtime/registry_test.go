package realtime

import (
	"errors"
	"testing"

	"presence_chat_server/pkg/errorx"
)

func TestRegisterReportsReachabilityTransitions(t *testing.T) {
	r := NewRegistry(false)

	s1, res, err := r.Register(1, &fakeConn{}, "laptop", 0)
	if err != nil || !res.BecameReachable {
		t.Fatalf("first session: res=%+v err=%v", res, err)
	}
	s2, res, err := r.Register(1, &fakeConn{}, "phone", 0)
	if err != nil || res.BecameReachable {
		t.Fatalf("second session should not be a transition: res=%+v err=%v", res, err)
	}
	if len(res.OtherOrigins) != 1 || res.OtherOrigins[0] != "laptop" {
		t.Fatalf("other origins = %v", res.OtherOrigins)
	}

	if r.Unregister(s1) {
		t.Fatal("identity still has a session, should stay reachable")
	}
	if !r.Unregister(s2) {
		t.Fatal("last session gone, should become unreachable")
	}
	if r.Unregister(s2) {
		t.Fatal("repeated unregister must be a no-op")
	}
	if r.IsReachable(1) || r.Count() != 0 {
		t.Fatalf("registry should be empty, count=%d", r.Count())
	}
}

func TestSameOriginGuard(t *testing.T) {
	r := NewRegistry(true)
	if _, _, err := r.Register(1, &fakeConn{}, "1.2.3.4", 7); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, _, err := r.Register(1, &fakeConn{}, "1.2.3.4", 7); !errors.Is(err, errorx.ErrDuplicateLogin) {
		t.Fatalf("same origin same room: got %v", err)
	}
	// 同一来源的另一个通道允许
	if _, _, err := r.Register(1, &fakeConn{}, "1.2.3.4", 0); err != nil {
		t.Fatalf("notification channel: %v", err)
	}
	if _, _, err := r.Register(1, &fakeConn{}, "5.6.7.8", 7); err != nil {
		t.Fatalf("other origin: %v", err)
	}

	open := NewRegistry(false)
	open.Register(1, &fakeConn{}, "1.2.3.4", 7)
	if _, _, err := open.Register(1, &fakeConn{}, "1.2.3.4", 7); err != nil {
		t.Fatalf("guard disabled: %v", err)
	}
}

func TestLeaveReportsDepartureOnlyForLastSession(t *testing.T) {
	r := NewRegistry(false)
	a1, _, _ := r.Register(1, &fakeConn{}, "", 9)
	a2, _, _ := r.Register(1, &fakeConn{}, "", 9)
	b, _, _ := r.Register(2, &fakeConn{}, "", 9)

	if partner, ok := r.PartnerOf(b, 9); !ok || partner != 1 {
		t.Fatalf("partner of b = %d %v", partner, ok)
	}
	if r.Leave(9, a1) {
		t.Fatal("identity 1 still has a session in the room")
	}
	if partner, ok := r.PartnerOf(b, 9); !ok || partner != 1 {
		t.Fatalf("partner after first leave = %d %v", partner, ok)
	}
	if !r.Leave(9, a2) {
		t.Fatal("last session of identity 1 left, should report departed")
	}
	if _, ok := r.PartnerOf(b, 9); ok {
		t.Fatal("no partner expected after identity 1 departed")
	}
	if ids := r.IdentitiesIn(9); len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("identities = %v", ids)
	}
	if a1.RoomID() != 0 {
		t.Fatalf("left session still bound to room %d", a1.RoomID())
	}
}

func TestJoinMovesSessionBetweenRooms(t *testing.T) {
	r := NewRegistry(false)
	s, _, _ := r.Register(1, &fakeConn{}, "", 3)
	r.Join(4, s)
	if len(r.MembersOf(3)) != 0 || len(r.MembersOf(4)) != 1 || s.RoomID() != 4 {
		t.Fatalf("room 3=%d room 4=%d bound=%d", len(r.MembersOf(3)), len(r.MembersOf(4)), s.RoomID())
	}
	r.Unregister(s)
	if len(r.MembersOf(4)) != 0 {
		t.Fatal("unregister must also clear room membership")
	}
}

func TestReachableAmongKeepsOrder(t *testing.T) {
	r := NewRegistry(false)
	r.Register(3, &fakeConn{}, "", 0)
	r.Register(1, &fakeConn{}, "", 0)
	got := r.ReachableAmong([]uint{3, 2, 1})
	if len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("reachable = %v", got)
	}
}

package realtime

import "testing"

func TestSendSkipsBrokenSessionAndDropsIt(t *testing.T) {
	r := NewRegistry(false)
	d := NewDispatcher(r)

	healthy := &fakeConn{}
	broken := &fakeConn{broken: true}
	r.Register(1, healthy, "a", 0)
	bad, _, _ := r.Register(1, broken, "b", 0)

	if n := d.Send(1, NewMarkerEvent("new_friend_request")); n != 1 {
		t.Fatalf("delivered = %d, want 1", n)
	}
	if healthy.count("new_friend_request") != 1 {
		t.Fatalf("healthy frames = %v", healthy.typesOf())
	}
	if _, ok := r.Session(bad.ID); ok {
		t.Fatal("broken session should be unregistered")
	}
	if !broken.isClosed() {
		t.Fatal("broken conn should be closed")
	}
	if !r.IsReachable(1) {
		t.Fatal("identity keeps its healthy session")
	}
}

func TestSendToOfflineIdentityIsSilent(t *testing.T) {
	d := NewDispatcher(NewRegistry(false))
	if n := d.Send(42, NewMarkerEvent("x")); n != 0 {
		t.Fatalf("delivered = %d", n)
	}
	if n := d.SendRoom(42, NewMarkerEvent("x")); n != 0 {
		t.Fatalf("room delivered = %d", n)
	}
}

func TestSendRoomReachesEveryMember(t *testing.T) {
	r := NewRegistry(false)
	d := NewDispatcher(r)
	a, b, outside := &fakeConn{}, &fakeConn{}, &fakeConn{}
	r.Register(1, a, "", 3)
	r.Register(2, b, "", 3)
	r.Register(3, outside, "", 4)

	if n := d.SendRoom(3, NewPartnerStatusEvent("online")); n != 2 {
		t.Fatalf("delivered = %d", n)
	}
	if len(outside.typesOf()) != 0 {
		t.Fatal("session in another room must not receive room events")
	}
}

func TestDropHandlerReceivesFailedSession(t *testing.T) {
	r := NewRegistry(false)
	d := NewDispatcher(r)
	var dropped []*Session
	d.SetDropHandler(func(s *Session) { dropped = append(dropped, s) })

	s, _, _ := r.Register(1, &fakeConn{broken: true}, "", 0)
	if err := d.SendToSession(s, NewMarkerEvent("x")); err == nil {
		t.Fatal("want write error")
	}
	if len(dropped) != 1 || dropped[0] != s {
		t.Fatalf("dropped = %v", dropped)
	}
}

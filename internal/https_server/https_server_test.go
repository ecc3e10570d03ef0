package https_server_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"presence_chat_server/internal/config"
	"presence_chat_server/internal/dao/database/databasetest"
	"presence_chat_server/internal/handler"
	"presence_chat_server/internal/https_server"
	"presence_chat_server/internal/infrastructure/credential"
	"presence_chat_server/internal/service"
	"presence_chat_server/pkg/errorx"
	"presence_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type apiResponse struct {
	Code int             `json:"code"`
	Msg  any             `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	url    string
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("api-test-secret", 15)
	if err := handler.InitTrans("zh"); err != nil {
		t.Fatalf("init trans: %v", err)
	}

	repos := databasetest.NewRepositories(t)
	svcs := service.NewServices(repos, nil, nil, credential.NewBcryptVerifier(4),
		&config.PresenceConfig{RejectSameOrigin: true, HistoryLimit: 20})
	engine := https_server.Init(handler.NewHandlers(svcs, 1), &config.MainConfig{})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return &testServer{t: t, url: server.URL, client: &http.Client{Timeout: 5 * time.Second}}
}

func (s *testServer) do(method, path string, body any, token string) (int, apiResponse) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("json marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url+path, reader)
	if err != nil {
		s.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.t.Fatalf("do request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.t.Fatalf("decode %s: %v", path, err)
	}
	return resp.StatusCode, out
}

// ok 要求业务码为成功，并把 data 解析到 v
func (s *testServer) ok(method, path string, body any, token string, v any) {
	s.t.Helper()
	status, out := s.do(method, path, body, token)
	if status != http.StatusOK || out.Code != errorx.CodeSuccess {
		s.t.Fatalf("%s %s: status=%d code=%d msg=%v", method, path, status, out.Code, out.Msg)
	}
	if v != nil {
		if err := json.Unmarshal(out.Data, v); err != nil {
			s.t.Fatalf("decode data of %s: %v", path, err)
		}
	}
}

type account struct {
	UserID      uint   `json:"user_id"`
	AccessToken string `json:"access_token"`
}

func (s *testServer) register(handle string) account {
	s.t.Helper()
	var acc account
	s.ok(http.MethodPost, "/register", map[string]any{"handle": handle, "password": "secret123"}, "", &acc)
	return acc
}

func (s *testServer) dial(path, token, origin string) *websocket.Conn {
	s.t.Helper()
	wsURL := "ws" + strings.TrimPrefix(s.url, "http") + path + "?token=" + token + "&origin=" + origin
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		s.t.Fatalf("dial %s: %v (status %d)", path, err, status)
	}
	s.t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitFor 读帧直到出现指定类型
func waitFor(t *testing.T, conn *websocket.Conn, eventType string) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", eventType, err)
		}
		var event map[string]any
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		if event["type"] == eventType {
			return event
		}
	}
}

func TestAuthFlowAndProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	status, out := s.do(http.MethodGet, "/contact/list", nil, "")
	if status != http.StatusUnauthorized || out.Code != errorx.CodeUnauthorized {
		t.Fatalf("anonymous: status=%d code=%d", status, out.Code)
	}

	alice := s.register("alice")
	if alice.UserID == 0 || alice.AccessToken == "" {
		t.Fatalf("register = %+v", alice)
	}
	_, out = s.do(http.MethodPost, "/register", map[string]any{"handle": "alice", "password": "secret123"}, "")
	if out.Code != errorx.CodeUserExist {
		t.Fatalf("duplicate register code = %d", out.Code)
	}
	_, out = s.do(http.MethodPost, "/register", map[string]any{"handle": "al", "password": "secret123"}, "")
	if out.Code != errorx.CodeInvalidParam {
		t.Fatalf("short handle code = %d", out.Code)
	}

	var login account
	s.ok(http.MethodPost, "/login", map[string]any{"handle": "alice", "password": "secret123"}, "", &login)
	if login.UserID != alice.UserID {
		t.Fatalf("login user = %d", login.UserID)
	}
	_, out = s.do(http.MethodPost, "/login", map[string]any{"handle": "alice", "password": "wrong-pass"}, "")
	if out.Code != errorx.CodeInvalidPassword {
		t.Fatalf("wrong password code = %d", out.Code)
	}

	var me struct {
		UserID uint `json:"user_id"`
		Online bool `json:"online"`
	}
	s.ok(http.MethodGet, "/user/me", nil, login.AccessToken, &me)
	if me.UserID != alice.UserID || me.Online {
		t.Fatalf("me = %+v", me)
	}
}

func TestFriendshipAndChatOverWebSocket(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	bobNotify := s.dial("/ws/notifications", bob.AccessToken, "bob-laptop")

	var sent struct {
		RequestID uint `json:"request_id"`
	}
	s.ok(http.MethodPost, "/friend/request", map[string]any{"receiver_id": bob.UserID}, alice.AccessToken, &sent)
	waitFor(t, bobNotify, "new_friend_request")

	var notifications []struct {
		RequestID   uint   `json:"request_id"`
		Kind        string `json:"kind"`
		OtherUserID uint   `json:"other_user_id"`
	}
	s.ok(http.MethodGet, "/friend/notifications", nil, bob.AccessToken, &notifications)
	if len(notifications) != 1 || notifications[0].RequestID != sent.RequestID || notifications[0].OtherUserID != alice.UserID {
		t.Fatalf("notifications = %+v", notifications)
	}

	// 非接收方不能处理申请
	_, out := s.do(http.MethodPost, "/friend/respond",
		map[string]any{"request_id": sent.RequestID, "decision": "accepted"}, alice.AccessToken)
	if out.Code != errorx.CodeForbidden {
		t.Fatalf("sender respond code = %d", out.Code)
	}
	s.ok(http.MethodPost, "/friend/respond",
		map[string]any{"request_id": sent.RequestID, "decision": "accepted"}, bob.AccessToken, nil)

	var contacts []struct {
		UserID uint `json:"user_id"`
		Online bool `json:"online"`
	}
	s.ok(http.MethodGet, "/contact/list", nil, alice.AccessToken, &contacts)
	if len(contacts) != 1 || contacts[0].UserID != bob.UserID || !contacts[0].Online {
		t.Fatalf("contacts = %+v", contacts)
	}

	var room struct {
		RoomID    uint `json:"room_id"`
		PartnerID uint `json:"partner_id"`
	}
	s.ok(http.MethodPost, "/room/private", map[string]any{"contact_id": bob.UserID}, alice.AccessToken, &room)
	var again struct {
		RoomID uint `json:"room_id"`
	}
	s.ok(http.MethodPost, "/room/private", map[string]any{"contact_id": alice.UserID}, bob.AccessToken, &again)
	if room.RoomID == 0 || room.RoomID != again.RoomID || room.PartnerID != bob.UserID {
		t.Fatalf("rooms = %+v %+v", room, again)
	}

	chatPath := fmt.Sprintf("/ws/chat/%d", room.RoomID)
	aliceChat := s.dial(chatPath, alice.AccessToken, "alice-laptop")
	history := waitFor(t, aliceChat, "history")
	if data := history["data"].([]any); len(data) != 0 {
		t.Fatalf("initial history = %v", data)
	}
	waitFor(t, bobNotify, "status_change")

	if err := aliceChat.WriteMessage(websocket.TextMessage, []byte("hello bob")); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := waitFor(t, aliceChat, "new_message")
	if data := msg["data"].(map[string]any); data["content"] != "hello bob" {
		t.Fatalf("echo = %v", msg)
	}

	bobChat := s.dial(chatPath, bob.AccessToken, "bob-laptop")
	history = waitFor(t, bobChat, "history")
	if data := history["data"].([]any); len(data) != 1 {
		t.Fatalf("bob history = %v", data)
	}
	update := waitFor(t, aliceChat, "read_status_update")
	if ids := update["messageIds"].([]any); len(ids) != 1 {
		t.Fatalf("read ids = %v", ids)
	}
	partner := waitFor(t, aliceChat, "partner_status_change")
	if partner["status"] != "online" {
		t.Fatalf("partner status = %v", partner)
	}

	var historyRsp []struct {
		Content string `json:"content"`
		IsRead  bool   `json:"isRead"`
	}
	s.ok(http.MethodGet, fmt.Sprintf("/room/history?room_id=%d", room.RoomID), nil, bob.AccessToken, &historyRsp)
	if len(historyRsp) != 1 || !historyRsp[0].IsRead {
		t.Fatalf("history = %+v", historyRsp)
	}

	_ = bobChat.Close()
	offline := waitFor(t, aliceChat, "partner_status_change")
	if offline["status"] != "offline" {
		t.Fatalf("partner status after leave = %v", offline)
	}
}

func TestChatChannelRequiresMembership(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	var group struct {
		RoomID uint `json:"room_id"`
	}
	s.ok(http.MethodPost, "/room/group", map[string]any{"name": "g", "member_ids": []uint{bob.UserID}}, alice.AccessToken, &group)

	carol := s.register("carol2")
	_, out := s.do(http.MethodGet, fmt.Sprintf("/room/history?room_id=%d", group.RoomID), nil, carol.AccessToken)
	if out.Code != errorx.CodeNotRoomMember {
		t.Fatalf("history by outsider code = %d", out.Code)
	}

	wsURL := "ws" + strings.TrimPrefix(s.url, "http") + fmt.Sprintf("/ws/chat/%d?token=%s", group.RoomID, carol.AccessToken)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		_ = conn.Close()
		t.Fatal("outsider should not be able to open the chat channel")
	}
}

func TestDuplicateOriginIsRejected(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	s.dial("/ws/notifications", alice.AccessToken, "same-device")
	dup := s.dial("/ws/notifications", alice.AccessToken, "same-device")
	_ = dup.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := dup.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("duplicate origin: err = %v", err)
	}
}

func TestAccountCheckAndPasswordRoutes(t *testing.T) {
	s := newTestServer(t)

	var check struct {
		Available bool `json:"available"`
	}
	s.ok(http.MethodGet, "/account/check?handle=grace", nil, "", &check)
	if !check.Available {
		t.Fatal("fresh handle should be available")
	}
	var grace account
	s.ok(http.MethodPost, "/register", map[string]any{
		"handle": "grace", "password": "secret123",
		"security_question": "favourite color?", "security_answer": "blue",
	}, "", &grace)
	s.ok(http.MethodGet, "/account/check?handle=grace", nil, "", &check)
	if check.Available {
		t.Fatal("registered handle should not be available")
	}
	_, out := s.do(http.MethodPost, "/register", map[string]any{
		"handle": "heidi", "password": "secret123", "security_question": "no answer?",
	}, "")
	if out.Code != errorx.CodeInvalidParam {
		t.Fatalf("question without answer code = %d", out.Code)
	}

	var question struct {
		Question string `json:"question"`
	}
	s.ok(http.MethodGet, "/password/question?handle=grace", nil, "", &question)
	if question.Question != "favourite color?" {
		t.Fatalf("question = %q", question.Question)
	}
	_, out = s.do(http.MethodPost, "/password/reset",
		map[string]any{"handle": "grace", "answer": "red", "new_password": "reset123"}, "")
	if out.Code != errorx.CodeInvalidPassword {
		t.Fatalf("wrong answer code = %d", out.Code)
	}
	s.ok(http.MethodPost, "/password/reset",
		map[string]any{"handle": "grace", "answer": "blue", "new_password": "reset123"}, "", nil)
	s.ok(http.MethodPost, "/login", map[string]any{"handle": "grace", "password": "reset123"}, "", nil)

	status, out := s.do(http.MethodPost, "/user/changePassword",
		map[string]any{"verification_type": "password", "old_password": "reset123", "new_password": "change123"}, "")
	if status != http.StatusUnauthorized || out.Code != errorx.CodeUnauthorized {
		t.Fatalf("anonymous change: status=%d code=%d", status, out.Code)
	}
	_, out = s.do(http.MethodPost, "/user/changePassword",
		map[string]any{"verification_type": "sms", "new_password": "change123"}, grace.AccessToken)
	if out.Code != errorx.CodeInvalidParam {
		t.Fatalf("bad verification type code = %d", out.Code)
	}
	s.ok(http.MethodPost, "/user/changePassword",
		map[string]any{"verification_type": "password", "old_password": "reset123", "new_password": "change123"}, grace.AccessToken, nil)
	s.ok(http.MethodPost, "/login", map[string]any{"handle": "grace", "password": "change123"}, "", nil)
}

func TestDeleteContactClosesPrivateChat(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	var sent struct {
		RequestID uint `json:"request_id"`
	}
	s.ok(http.MethodPost, "/friend/request", map[string]any{"receiver_id": bob.UserID}, alice.AccessToken, &sent)
	s.ok(http.MethodPost, "/friend/respond",
		map[string]any{"request_id": sent.RequestID, "decision": "accepted"}, bob.AccessToken, nil)
	// 重复同意是安全的空操作
	var repeated struct {
		Status string `json:"status"`
	}
	s.ok(http.MethodPost, "/friend/respond",
		map[string]any{"request_id": sent.RequestID, "decision": "accepted"}, bob.AccessToken, &repeated)
	if repeated.Status != "accepted" {
		t.Fatalf("repeated accept status = %q", repeated.Status)
	}

	var room struct {
		RoomID uint `json:"room_id"`
	}
	s.ok(http.MethodPost, "/room/private", map[string]any{"contact_id": bob.UserID}, alice.AccessToken, &room)
	chatPath := fmt.Sprintf("/ws/chat/%d", room.RoomID)
	aliceChat := s.dial(chatPath, alice.AccessToken, "alice-laptop")
	waitFor(t, aliceChat, "history")
	bobChat := s.dial(chatPath, bob.AccessToken, "bob-laptop")
	waitFor(t, bobChat, "history")
	waitFor(t, aliceChat, "partner_status_change")

	s.ok(http.MethodPost, "/contact/delete", map[string]any{"contact_id": bob.UserID}, alice.AccessToken, nil)
	for name, conn := range map[string]*websocket.Conn{"alice": aliceChat, "bob": bobChat} {
		waitClosed(t, name, conn)
	}

	_, out := s.do(http.MethodGet, fmt.Sprintf("/room/history?room_id=%d", room.RoomID), nil, alice.AccessToken)
	if out.Code != errorx.CodeNotRoomMember {
		t.Fatalf("history of deleted room code = %d", out.Code)
	}
}

// waitClosed 读帧直到服务端关闭连接，超时视为失败
func waitClosed(t *testing.T, name string, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.Fatalf("%s chat channel still open after delete", name)
		}
		return
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"presence_chat_server/internal/dto/respond"
)

// fakeConn 记录写入的帧，broken 为 true 时写入失败
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	broken bool
	closed bool
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken || c.closed {
		return errors.New("broken pipe")
	}
	c.frames = append(c.frames, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// events 按顺序解析出每帧的 type 与原始 JSON
func (c *fakeConn) events() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) typesOf() []string {
	var out []string
	for _, e := range c.events() {
		t, _ := e["type"].(string)
		out = append(out, t)
	}
	return out
}

func (c *fakeConn) count(eventType string) int {
	n := 0
	for _, t := range c.typesOf() {
		if t == eventType {
			n++
		}
	}
	return n
}

type staticContacts map[uint][]uint

func (s staticContacts) ContactIDs(_ context.Context, identity uint) ([]uint, error) {
	return s[identity], nil
}

// fakeMessages 内存消息存储，markRead 结果按 (room, reader) 记录
type fakeMessages struct {
	mu       sync.Mutex
	nextID   uint
	messages []respond.MessageRespond
	registry *Registry
	receipts *ReceiptTracker
}

func newFakeMessages(registry *Registry) *fakeMessages {
	return &fakeMessages{registry: registry, receipts: NewReceiptTracker()}
}

func (f *fakeMessages) RecentHistory(_ context.Context, roomID uint, limit int) ([]respond.MessageRespond, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []respond.MessageRespond
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessages) Append(_ context.Context, roomID, senderID uint, content string) (*respond.MessageRespond, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := respond.MessageRespond{ID: f.nextID, RoomID: roomID, SenderID: senderID, Content: content}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, roomID, readerID uint) error {
	var author uint
	others := 0
	for _, id := range f.registry.IdentitiesIn(roomID) {
		if id != readerID {
			author = id
			others++
		}
	}
	if others != 1 {
		return nil
	}

	f.mu.Lock()
	var ids []uint
	for i := range f.messages {
		m := &f.messages[i]
		if m.RoomID == roomID && m.SenderID == author && !m.IsRead {
			m.IsRead = true
			ids = append(ids, m.ID)
		}
	}
	f.mu.Unlock()
	f.receipts.Record(roomID, readerID, author, ids)
	return nil
}

func (f *fakeMessages) ReadIdsByAuthor(roomID, readerID, authorID uint) []uint {
	return f.receipts.Drain(roomID, readerID, authorID)
}

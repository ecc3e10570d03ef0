package realtime

import "sync"

type receiptKey struct {
	room   uint
	reader uint
	author uint
}

// ReceiptTracker 暂存标记已读产生、尚未通知作者的消息 ID
// 同一读者的多个会话可能并发标记，Record 只追加，Drain 取出后即清空
// 同一批 ID 只会通知作者一次
type ReceiptTracker struct {
	mu      sync.Mutex
	pending map[receiptKey][]uint
}

func NewReceiptTracker() *ReceiptTracker {
	return &ReceiptTracker{pending: make(map[receiptKey][]uint)}
}

// Record 把 ids 追加到 (room, reader, author) 的待通知列表，重复 ID 只保留一次
func (t *ReceiptTracker) Record(room, reader, author uint, ids []uint) {
	if len(ids) == 0 {
		return
	}
	key := receiptKey{room: room, reader: reader, author: author}
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.pending[key]
	seen := make(map[uint]struct{}, len(list)+len(ids))
	for _, id := range list {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		list = append(list, id)
	}
	t.pending[key] = list
}

// Drain 返回并清空待通知 ID，没有时返回空切片
func (t *ReceiptTracker) Drain(room, reader, author uint) []uint {
	key := receiptKey{room: room, reader: reader, author: author}
	t.mu.Lock()
	defer t.mu.Unlock()
	ids, ok := t.pending[key]
	if !ok {
		return []uint{}
	}
	delete(t.pending, key)
	return ids
}

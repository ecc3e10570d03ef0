// Package realtime 维护在线会话、房间成员索引、在线状态广播与已读回执
// 进程内单实例，所有状态随进程重启丢失
package realtime

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"presence_chat_server/pkg/errorx"
	"presence_chat_server/pkg/util/snowflake"
)

// Conn 会话的写端，由网关层实现
// WriteMessage 需保证并发安全
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// Session 一条实时连接
// RoomID 为 0 表示通知通道
type Session struct {
	ID        string
	Identity  uint
	Origin    string
	CreatedAt time.Time

	room atomic.Uint64
	conn Conn
}

// RoomID 当前绑定的房间
func (s *Session) RoomID() uint {
	return uint(s.room.Load())
}

func (s *Session) write(data []byte) error {
	return s.conn.WriteMessage(data)
}

// Close 关闭底层连接，网关读循环随之退出
func (s *Session) Close() error {
	return s.conn.Close()
}

// RegisterResult 注册结果
type RegisterResult struct {
	// BecameReachable 该身份此前没有任何会话
	BecameReachable bool
	// OtherOrigins 该身份已有会话的其他来源，去重排序
	OtherOrigins []string
}

// Registry 会话注册表，同时按身份和房间建立索引
// 对外返回的切片均为拷贝，调用方遍历时无需持锁
type Registry struct {
	mu               sync.RWMutex
	rejectSameOrigin bool

	sessions   map[string]*Session
	byIdentity map[uint]map[string]*Session
	byRoom     map[uint]map[string]*Session
}

// NewRegistry rejectSameOrigin 为 true 时同一身份、同一来源、同一通道只允许一个会话
func NewRegistry(rejectSameOrigin bool) *Registry {
	return &Registry{
		rejectSameOrigin: rejectSameOrigin,
		sessions:         make(map[string]*Session),
		byIdentity:       make(map[uint]map[string]*Session),
		byRoom:           make(map[uint]map[string]*Session),
	}
}

// Register 登记新会话，roomID 非 0 时同时加入房间
// 是否"刚上线"在锁内判定，并发连接只会产生一次跃迁
func (r *Registry) Register(identity uint, conn Conn, origin string, roomID uint) (*Session, RegisterResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.byIdentity[identity]
	if r.rejectSameOrigin && origin != "" {
		for _, s := range existing {
			if s.Origin == origin && s.RoomID() == roomID {
				return nil, RegisterResult{}, errorx.ErrDuplicateLogin
			}
		}
	}

	seen := make(map[string]struct{})
	var others []string
	for _, s := range existing {
		if s.Origin == "" || s.Origin == origin {
			continue
		}
		if _, ok := seen[s.Origin]; !ok {
			seen[s.Origin] = struct{}{}
			others = append(others, s.Origin)
		}
	}
	sort.Strings(others)

	s := &Session{
		ID:        snowflake.GenerateIDString(),
		Identity:  identity,
		Origin:    origin,
		CreatedAt: time.Now(),
		conn:      conn,
	}
	r.sessions[s.ID] = s
	if existing == nil {
		existing = make(map[string]*Session)
		r.byIdentity[identity] = existing
	}
	existing[s.ID] = s
	if roomID != 0 {
		r.joinLocked(roomID, s)
	}

	return s, RegisterResult{BecameReachable: len(existing) == 1, OtherOrigins: others}, nil
}

// Unregister 移除会话，返回该身份是否因此变为不可达
// 重复调用或会话不存在时为空操作
func (r *Registry) Unregister(s *Session) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return false
	}
	delete(r.sessions, s.ID)
	if room := s.RoomID(); room != 0 {
		r.leaveLocked(room, s)
	}

	set := r.byIdentity[s.Identity]
	delete(set, s.ID)
	if len(set) == 0 {
		delete(r.byIdentity, s.Identity)
		return true
	}
	return false
}

// Session 按 ID 查找
func (r *Registry) Session(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// SessionsOf 某身份的全部会话
func (r *Registry) SessionsOf(identity uint) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySessions(r.byIdentity[identity])
}

// IsReachable 身份是否至少有一个会话
func (r *Registry) IsReachable(identity uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity[identity]) > 0
}

// ReachableAmong 过滤出在线的身份，保持输入顺序
func (r *Registry) ReachableAmong(ids []uint) []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if len(r.byIdentity[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// CloseOthers 返回该身份除 keepID 外的全部会话，由调用方关闭
func (r *Registry) CloseOthers(identity uint, keepID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Session
	for id, s := range r.byIdentity[identity] {
		if id != keepID {
			out = append(out, s)
		}
	}
	sortSessions(out)
	return out
}

// Count 当前会话总数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ==================== 房间索引 ====================

// Join 把会话绑定到房间，原先绑定的房间自动离开
func (r *Registry) Join(roomID uint, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return
	}
	if old := s.RoomID(); old != 0 && old != roomID {
		r.leaveLocked(old, s)
	}
	r.joinLocked(roomID, s)
}

// Leave 把会话移出房间
// 返回该身份是否已没有任何会话留在房间内
func (r *Registry) Leave(roomID uint, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(roomID, s)
}

// MembersOf 房间内的全部会话
func (r *Registry) MembersOf(roomID uint) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySessions(r.byRoom[roomID])
}

// IdentitiesIn 房间内的在线身份，升序
func (r *Registry) IdentitiesIn(roomID uint) []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[uint]struct{})
	var ids []uint
	for _, s := range r.byRoom[roomID] {
		if _, ok := seen[s.Identity]; !ok {
			seen[s.Identity] = struct{}{}
			ids = append(ids, s.Identity)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PartnerOf 房间内另一方的身份，多人时取 ID 最小者
func (r *Registry) PartnerOf(s *Session, roomID uint) (uint, bool) {
	return r.PartnerAfterLeave(roomID, s.Identity)
}

// PartnerAfterLeave 在 departing 离开后的房间内查找另一方
func (r *Registry) PartnerAfterLeave(roomID uint, departing uint) (uint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var partner uint
	found := false
	for _, s := range r.byRoom[roomID] {
		if s.Identity == departing {
			continue
		}
		if !found || s.Identity < partner {
			partner = s.Identity
			found = true
		}
	}
	return partner, found
}

// IdentityInRoom 身份在房间内是否仍有会话
func (r *Registry) IdentityInRoom(roomID uint, identity uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identityInRoomLocked(roomID, identity)
}

func (r *Registry) joinLocked(roomID uint, s *Session) {
	set := r.byRoom[roomID]
	if set == nil {
		set = make(map[string]*Session)
		r.byRoom[roomID] = set
	}
	set[s.ID] = s
	s.room.Store(uint64(roomID))
}

func (r *Registry) leaveLocked(roomID uint, s *Session) bool {
	set, ok := r.byRoom[roomID]
	if !ok {
		return false
	}
	if _, ok := set[s.ID]; !ok {
		return false
	}
	delete(set, s.ID)
	if len(set) == 0 {
		delete(r.byRoom, roomID)
	}
	s.room.CompareAndSwap(uint64(roomID), 0)
	return !r.identityInRoomLocked(roomID, s.Identity)
}

func (r *Registry) identityInRoomLocked(roomID uint, identity uint) bool {
	for _, s := range r.byRoom[roomID] {
		if s.Identity == identity {
			return true
		}
	}
	return false
}

func copySessions(set map[string]*Session) []*Session {
	out := make([]*Session, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	sortSessions(out)
	return out
}

func sortSessions(list []*Session) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

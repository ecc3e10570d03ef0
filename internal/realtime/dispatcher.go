package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Dispatcher 把事件写到身份或房间的所有会话
// 写失败的会话交给 dropHandler 走统一的断开流程
type Dispatcher struct {
	registry    *Registry
	dropHandler func(s *Session)
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// SetDropHandler 设置写失败时的处理函数，由 Hub 在构造时注入
func (d *Dispatcher) SetDropHandler(fn func(s *Session)) {
	d.dropHandler = fn
}

// Send 序列化一次后写到 identity 的每个会话，返回成功写入的数量
// 身份不在线时静默丢弃
func (d *Dispatcher) Send(identity uint, event any) int {
	sessions := d.registry.SessionsOf(identity)
	if len(sessions) == 0 {
		return 0
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal realtime event failed", zap.Uint("identity", identity), zap.Error(err))
		return 0
	}
	return d.writeAll(sessions, data)
}

// SendRoom 写到房间内的每个会话
func (d *Dispatcher) SendRoom(roomID uint, event any) int {
	sessions := d.registry.MembersOf(roomID)
	if len(sessions) == 0 {
		return 0
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal realtime event failed", zap.Uint("room", roomID), zap.Error(err))
		return 0
	}
	return d.writeAll(sessions, data)
}

// SendToSession 只写给一个会话
func (d *Dispatcher) SendToSession(s *Session, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err = s.write(data); err != nil {
		d.drop(s, err)
		return err
	}
	return nil
}

// CloseRoom 断开房间内的全部会话，返回断开数量
// 房间被删除后调用，断开走与写失败相同的流程
func (d *Dispatcher) CloseRoom(roomID uint) int {
	sessions := d.registry.MembersOf(roomID)
	for _, s := range sessions {
		zap.L().Info("closing session of removed room",
			zap.String("session", s.ID), zap.Uint("identity", s.Identity), zap.Uint("room", roomID))
		if d.dropHandler != nil {
			d.dropHandler(s)
			continue
		}
		d.registry.Leave(roomID, s)
		d.registry.Unregister(s)
		_ = s.Close()
	}
	return len(sessions)
}

// writeAll 单个会话失败不影响其余会话
func (d *Dispatcher) writeAll(sessions []*Session, data []byte) int {
	delivered := 0
	for _, s := range sessions {
		if err := s.write(data); err != nil {
			d.drop(s, err)
			continue
		}
		delivered++
	}
	return delivered
}

func (d *Dispatcher) drop(s *Session, err error) {
	zap.L().Warn("realtime write failed, dropping session",
		zap.String("session", s.ID), zap.Uint("identity", s.Identity), zap.Error(err))
	if d.dropHandler != nil {
		d.dropHandler(s)
		return
	}
	d.registry.Unregister(s)
	_ = s.Close()
}

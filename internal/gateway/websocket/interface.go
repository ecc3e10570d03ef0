package websocket

import (
	"context"

	"presence_chat_server/internal/realtime"
)

// SessionHub 网关依赖的实时核心能力
// 用于解耦 websocket 包对 realtime.Hub 具体实现的依赖
type SessionHub interface {
	Connect(ctx context.Context, identity uint, conn realtime.Conn, origin string, roomID uint) (*realtime.Session, error)
	Disconnect(ctx context.Context, s *realtime.Session)
	HandleInbound(ctx context.Context, s *realtime.Session, data []byte)
}

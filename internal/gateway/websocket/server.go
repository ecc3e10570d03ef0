package websocket

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"presence_chat_server/pkg/constants"
	"presence_chat_server/pkg/errorx"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server 把升级后的连接接入 SessionHub
type Server struct {
	hub     SessionHub
	maxIdle time.Duration
}

// NewServer maxIdleMinutes <= 0 时使用 constants.MAX_IDLE_MINUTES
func NewServer(hub SessionHub, maxIdleMinutes int) *Server {
	if maxIdleMinutes <= 0 {
		maxIdleMinutes = constants.MAX_IDLE_MINUTES
	}
	return &Server{hub: hub, maxIdle: time.Duration(maxIdleMinutes) * time.Minute}
}

// Serve 升级 HTTP 连接并阻塞读取，直到连接断开
// roomID 为 0 表示通知通道；非 0 时调用方需已校验成员资格
func (s *Server) Serve(c *gin.Context, identity uint, origin string, roomID uint) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失败时已向客户端写回 HTTP 错误
		zap.L().Warn("websocket upgrade failed", zap.Uint("identity", identity), zap.Error(err))
		return
	}
	conn := newWSConn(raw)

	ctx := context.Background()
	session, err := s.hub.Connect(ctx, identity, conn, origin, roomID)
	if err != nil {
		reason := "服务繁忙"
		if errors.Is(err, errorx.ErrDuplicateLogin) {
			reason = errorx.ErrDuplicateLogin.Msg
		}
		zap.L().Info("websocket rejected", zap.Uint("identity", identity), zap.String("origin", origin), zap.Error(err))
		conn.closeWith(websocket.ClosePolicyViolation, reason)
		return
	}
	defer s.hub.Disconnect(ctx, session)

	raw.SetReadLimit(constants.WS_MAX_MESSAGE_BYTES)
	_ = raw.SetReadDeadline(time.Now().Add(s.maxIdle))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(s.maxIdle))
	})

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(conn, done)

	for {
		_, data, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("websocket read error", zap.String("session", session.ID), zap.Error(err))
			}
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(s.maxIdle))
		s.hub.HandleInbound(ctx, session, data)
	}
}

// keepAlive 定时发送 ping，对端回 pong 刷新读超时
func (s *Server) keepAlive(conn *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(s.maxIdle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

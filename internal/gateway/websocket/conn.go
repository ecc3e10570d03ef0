package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// wsConn 把 gorilla 连接包装为 realtime.Conn
// gorilla 不允许并发写，所有写操作经 mu 串行
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	once sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (w *wsConn) WriteMessage(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsConn) ping() error {
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// closeWith 发送关闭帧后关闭底层连接
func (w *wsConn) closeWith(code int, reason string) {
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	_ = w.Close()
}

// Close 可重复调用
func (w *wsConn) Close() error {
	var err error
	w.once.Do(func() {
		err = w.conn.Close()
	})
	return err
}

package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn 核心层看到的连接抽象：只需要能投递字节
// 接口值本身（指针实现）就是连接标识，注册表以它为键
type Conn interface {
	Send(b []byte)
}

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws      *websocket.Conn
	send    chan []byte
	metrics *Metrics
}

func NewClientConn(ws *websocket.Conn, m *Metrics) *ClientConn {
	return &ClientConn{
		ws:      ws,
		send:    make(chan []byte, 64),
		metrics: m,
	}
}

// Send 将要发送的消息压入队列（非阻塞，满则丢弃）
// 慢接收方不能拖慢注册表的事件处理
func (c *ClientConn) Send(b []byte) {
	select {
	case c.send <- b:
	default:
		if c.metrics != nil {
			c.metrics.IncSendsDropped()
		}
	}
}

// Close 关闭底层连接与发送队列；由注册表在移除连接时调用
func (c *ClientConn) Close() {
	if c.send != nil {
		// 关闭发送通道以结束写协程
		close(c.send)
		c.send = nil
	}
	_ = c.ws.Close()
}

// 心跳窗口：服务端主动 ping，pong 刷新读超时
// 排队中的玩家可以长时间不发消息，连接必须靠心跳维持而不是被踢
var (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // 必须小于 pongWait
)

const writeWait = 5 * time.Second

// writePump 独立协程，负责从 send 队列写出到 WS，并按周期发 ping
func (c *ClientConn) writePump() {
	send := c.send
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.ws.Close()
	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息并交给注册表分发；退出时触发断线清理
func (c *ClientConn) readPump(reg *Registry) {
	defer c.ws.Close()
	defer reg.RemoveConnection(c)
	c.ws.SetReadLimit(1 << 20) // 1MB
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		reg.HandleMessage(c, payload)
	}
}

// sendJSON 序列化后投递；编码失败只记日志，不影响其他连接
func sendJSON(c Conn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		Log.Errorf("marshal outbound message: %v", err)
		return
	}
	c.Send(b)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：连接即注册，身份由服务端生成
func HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Errorf("upgrade error: %v", err)
		return
	}

	reg := GetRegistry()
	client := NewClientConn(ws, reg.metrics)
	reg.Register(client)

	go client.writePump()
	go client.readPump(reg)
}

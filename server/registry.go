package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Registry 匹配注册表：持有全部在线玩家、等待队列与活跃房间
// 所有可变状态由单一互斥锁串行化，处理函数内部绝不做阻塞 I/O
// （出站全部走连接的非阻塞投递），等价于单线程事件循环
type Registry struct {
	mu      sync.Mutex
	players map[Conn]*Player // 连接标识 → 权威玩家记录
	waiting []*Player        // FIFO 等待队列
	rooms   []*Room
	metrics *Metrics
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// GetRegistry 单例注册表
func GetRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[Conn]*Player),
		metrics: NewMetrics(),
	}
}

// Register 新连接接入：生成唯一名字，初始状态 Idle
func (reg *Registry) Register(c Conn) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	p := &Player{
		Name:   uuid.NewString(),
		Status: StatusIdle,
		Conn:   c,
	}
	reg.players[c] = p
	reg.metrics.IncConnections()
	Log.Infof("user connected: %s", p.Name)
}

// HandleMessage 入站消息分发：解析 type 字段后路由到对应处理
// 解析失败或缺少 type 一律回复提示，不改任何状态
func (reg *Registry) HandleMessage(c Conn, payload []byte) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	p, ok := reg.players[c]
	if !ok {
		// 连接已被移除后仍有消息在途，直接丢弃
		return
	}

	// 非法输入 = 解析失败或 type 缺失/非字符串；
	// 能解析出的任何字符串（包括空串）都走类型分发
	var msg InboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Type == nil {
		reg.metrics.IncInvalidPayloads()
		sendJSON(c, Notice{Message: "Invalid JSON Input"})
		return
	}

	switch *msg.Type {
	case TypeInitGame:
		Log.Debugf("received %s from %s", *msg.Type, p.Name)
		reg.joinQueue(p)
	case TypeChatMessage:
		reg.routeChatMessage(c, msg.Message)
	default:
		reg.metrics.IncUnknownTypes()
		sendJSON(c, Notice{Message: "Unknown message type"})
	}
}

// joinQueue 入队：仅 Idle 可入（防止重复排队与房内重排），
// 凑满 RoomSize 人立即按 FIFO 取前几名开局
func (reg *Registry) joinQueue(p *Player) {
	switch p.Status {
	case StatusWaiting:
		sendJSON(p.Conn, StatusMessage{Type: TypeError, Message: "You are already waiting for a game."})
		return
	case StatusInRoom:
		sendJSON(p.Conn, StatusMessage{Type: TypeError, Message: "You are already in a room."})
		return
	}

	p.Status = StatusWaiting
	reg.waiting = append(reg.waiting, p)
	reg.metrics.IncGamesQueued()

	sendJSON(p.Conn, StatusMessage{
		Type:    TypeWaitingStatus,
		Message: "Waiting for other players to join.",
	})

	if len(reg.waiting) >= RoomSize {
		batch := reg.waiting[:RoomSize]
		reg.waiting = append([]*Player{}, reg.waiting[RoomSize:]...)
		reg.formRoom(batch)
	}
}

// formRoom 开局：构造新房间（内部洗牌分配角色），同步回写
// 权威记录的状态与角色，并逐一下发开局通知
func (reg *Registry) formRoom(batch []*Player) {
	room := NewRoom(batch)
	reg.rooms = append(reg.rooms, room)
	reg.metrics.IncRoomsFormed()

	for _, m := range room.Members() {
		if p, ok := reg.players[m.Conn]; ok {
			p.Status = StatusInRoom
			p.Role = m.Role
		}
		sendJSON(m.Conn, GameStartMessage{
			Type:    TypeGameStart,
			Message: "Game is starting. Your role is: " + string(m.Role),
			RoomID:  room.ID,
			Role:    m.Role,
		})
	}

	roster := ""
	for i, m := range room.Members() {
		if i > 0 {
			roster += ", "
		}
		roster += m.Name + " (" + string(m.Role) + ")"
	}
	Log.Infof("started room %s with players: %s", room.ID, roster)

	// 开局后的全量状态快照，排查状态机问题用
	Log.Debugf("all players:")
	for _, pl := range reg.players {
		Log.Debugf("player %s status=%s", pl.Name, pl.Status)
	}
}

// routeChatMessage 聊天路由：按连接标识重新解析当前记录，
// 不信任消息到达时的旧快照
func (reg *Registry) routeChatMessage(c Conn, text string) {
	p, ok := reg.players[c]
	if !ok || p.Status != StatusInRoom {
		sendJSON(c, StatusMessage{
			Type:    TypeError,
			Message: "You must be in a room to send chat messages.",
		})
		return
	}

	for _, room := range reg.rooms {
		if room.Contains(c) {
			room.Broadcast(c, text)
			reg.metrics.IncChatsRouted()
			return
		}
	}

	// 状态说在房间里但哪个房间都找不到：不变量被破坏，记录后让用户重来
	Log.Errorf("player %s marked InRoom but not found in any active room", p.Name)
	sendJSON(c, StatusMessage{
		Type:    TypeError,
		Message: "You are not in an active room. Please rejoin the game.",
	})
}

// RemoveConnection 断线清理：从玩家表和等待队列摘除，
// 所在房间按剩余人数重建（≥2）或解散（<2）。重复调用是无害的空操作
func (reg *Registry) RemoveConnection(c Conn) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	p, ok := reg.players[c]
	if !ok {
		return
	}
	delete(reg.players, c)
	reg.metrics.IncDisconnections()
	Log.Infof("user disconnected: %s", p.Name)

	// 出站全部在本锁内串行，此处关闭后不可能再有人向它投递
	if closer, ok := c.(interface{ Close() }); ok {
		closer.Close()
	}

	for i, w := range reg.waiting {
		if w.Conn == c {
			reg.waiting = append(reg.waiting[:i], reg.waiting[i+1:]...)
			break
		}
	}

	kept := reg.rooms[:0]
	for _, room := range reg.rooms {
		if !room.Contains(c) {
			kept = append(kept, room)
			continue
		}
		remaining := make([]*Player, 0, len(room.members))
		for _, m := range room.members {
			if m.Conn == c {
				continue
			}
			if cur, ok := reg.players[m.Conn]; ok {
				remaining = append(remaining, cur)
			}
		}
		if len(remaining) < 2 {
			// 人数不足以继续，整房解散，幸存者回到 Idle 可重新排队
			for _, cur := range remaining {
				cur.Status = StatusIdle
				cur.Role = ""
			}
			reg.metrics.IncRoomsDissolved()
			Log.Infof("room %s dissolved (%d players left)", room.ID, len(remaining))
			continue
		}
		// 用剩余成员重建：房间是值而非可变对象，角色重新洗牌
		rebuilt := NewRoom(remaining)
		for _, m := range rebuilt.Members() {
			if cur, ok := reg.players[m.Conn]; ok {
				cur.Status = StatusInRoom
				cur.Role = m.Role
			}
		}
		kept = append(kept, rebuilt)
		reg.metrics.IncRoomsRebuilt()
		Log.Infof("room %s rebuilt as %s with %d players", room.ID, rebuilt.ID, len(remaining))
	}
	reg.rooms = kept
}

// PlayerCount 在线玩家数
func (reg *Registry) PlayerCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.players)
}

// WaitingCount 等待队列长度
func (reg *Registry) WaitingCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.waiting)
}

// Rooms 活跃房间快照
func (reg *Registry) Rooms() []*Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*Room, len(reg.rooms))
	copy(out, reg.rooms)
	return out
}

// PlayerByConn 按连接标识取玩家记录的只读副本
func (reg *Registry) PlayerByConn(c Conn) (Player, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	p, ok := reg.players[c]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Metrics 注册表的运行指标
func (reg *Registry) Metrics() *Metrics {
	return reg.metrics
}

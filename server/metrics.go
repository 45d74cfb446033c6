package server

import (
	"sync/atomic"
)

// Metrics 记录注册表运行期的关键指标（用于监控与调试）
type Metrics struct {
	Connections    int64 // 累计接入的连接数
	Disconnections int64 // 累计断开的连接数
	GamesQueued    int64 // 成功进入等待队列的请求数
	RoomsFormed    int64 // 新开局的房间数
	RoomsRebuilt   int64 // 因成员退出而重建的房间数
	RoomsDissolved int64 // 因人数不足而解散的房间数
	ChatsRouted    int64 // 成功扇出的聊天消息数
	InvalidPayload int64 // 无法解析的入站载荷数
	UnknownTypes   int64 // 类型不被识别的入站消息数
	SendsDropped   int64 // 因发送队列满被丢弃的出站消息数
}

func NewMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) IncConnections()     { atomic.AddInt64(&m.Connections, 1) }
func (m *Metrics) IncDisconnections()  { atomic.AddInt64(&m.Disconnections, 1) }
func (m *Metrics) IncGamesQueued()     { atomic.AddInt64(&m.GamesQueued, 1) }
func (m *Metrics) IncRoomsFormed()     { atomic.AddInt64(&m.RoomsFormed, 1) }
func (m *Metrics) IncRoomsRebuilt()    { atomic.AddInt64(&m.RoomsRebuilt, 1) }
func (m *Metrics) IncRoomsDissolved()  { atomic.AddInt64(&m.RoomsDissolved, 1) }
func (m *Metrics) IncChatsRouted()     { atomic.AddInt64(&m.ChatsRouted, 1) }
func (m *Metrics) IncInvalidPayloads() { atomic.AddInt64(&m.InvalidPayload, 1) }
func (m *Metrics) IncUnknownTypes()    { atomic.AddInt64(&m.UnknownTypes, 1) }
func (m *Metrics) IncSendsDropped()    { atomic.AddInt64(&m.SendsDropped, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"connections":     atomic.LoadInt64(&m.Connections),
		"disconnections":  atomic.LoadInt64(&m.Disconnections),
		"games_queued":    atomic.LoadInt64(&m.GamesQueued),
		"rooms_formed":    atomic.LoadInt64(&m.RoomsFormed),
		"rooms_rebuilt":   atomic.LoadInt64(&m.RoomsRebuilt),
		"rooms_dissolved": atomic.LoadInt64(&m.RoomsDissolved),
		"chats_routed":    atomic.LoadInt64(&m.ChatsRouted),
		"invalid_payload": atomic.LoadInt64(&m.InvalidPayload),
		"unknown_types":   atomic.LoadInt64(&m.UnknownTypes),
		"sends_dropped":   atomic.LoadInt64(&m.SendsDropped),
	}
}

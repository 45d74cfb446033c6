package server

import (
	"math/rand"

	"github.com/google/uuid"
)

// Room 一局聊天房：成员快照在构造时固定，之后不再就地修改
// 有人退出时由注册表用剩余成员重建新 Room（角色重新洗牌），旧的整体丢弃
type Room struct {
	ID      string
	members []*Player // 构造时的有序快照，持有带角色的副本
}

// NewRoom 从成员列表构造房间并做一次性角色分配
// 角色枚举洗牌后按位次分配；重建时成员数可小于枚举大小，
// 只用洗牌结果的前 len(members) 个角色
func NewRoom(members []*Player) *Room {
	roles := allRoles()
	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	snapshot := make([]*Player, 0, len(members))
	for i, p := range members {
		cp := *p
		cp.Role = roles[i]
		cp.Status = StatusInRoom
		snapshot = append(snapshot, &cp)
	}

	return &Room{
		ID:      uuid.NewString(),
		members: snapshot,
	}
}

// Members 返回成员快照的副本
func (r *Room) Members() []*Player {
	out := make([]*Player, len(r.members))
	copy(out, r.members)
	return out
}

// Contains 按连接标识判断成员归属
func (r *Room) Contains(c Conn) bool {
	return r.find(c) != nil
}

// find 按连接标识解析房间内的权威记录
func (r *Room) find(c Conn) *Player {
	for _, p := range r.members {
		if p.Conn == c {
			return p
		}
	}
	return nil
}

// Broadcast 将 sender 的发言扇出给房间内其他成员
// sender 以连接标识在房间内重新解析（外部传入的记录可能已过期）；
// 不在房间内则不做任何事，发送方自己不会收到回显
func (r *Room) Broadcast(sender Conn, text string) {
	from := r.find(sender)
	if from == nil {
		return
	}
	payload := ChatBroadcast{
		Type:    TypeChatMessage,
		Sender:  from.Name,
		Role:    from.Role,
		Message: text,
	}
	for _, p := range r.members {
		if p.Conn == sender {
			continue
		}
		sendJSON(p.Conn, payload)
	}
}

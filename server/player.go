package server

// Status 玩家匹配状态机：Idle → WaitingForPlayers → InRoom
// InRoom 不会回退到等待态，只能通过断线退出
type Status int

const (
	StatusIdle Status = iota
	StatusWaiting
	StatusInRoom
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusWaiting:
		return "WaitingForPlayers"
	case StatusInRoom:
		return "InRoom"
	default:
		return "Unknown"
	}
}

// Role 房间内角色，全量枚举大小等于开局人数
type Role string

const (
	RoleJudge1     Role = "judge1"
	RoleJudge2     Role = "judge2"
	RoleContestant Role = "contestant"
	RoleDefendant  Role = "defendant"
)

// allRoles 返回角色枚举的新副本（调用方会就地洗牌）
func allRoles() []Role {
	return []Role{RoleJudge1, RoleJudge2, RoleContestant, RoleDefendant}
}

// RoomSize 开局人数 = 角色枚举大小
const RoomSize = 4

// Player 服务端权威的玩家记录，以连接标识为唯一键
type Player struct {
	Name   string // 连接时生成的 UUID
	Status Status
	Role   Role // 仅在进房后有效

	Conn Conn // 网络连接的发送端
}

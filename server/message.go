package server

// 入站消息类型（WebSocket 文本帧里的 type 字段）
const (
	TypeInitGame    = "INIT_GAME"
	TypeChatMessage = "CHAT_MESSAGE"
)

// 出站消息类型
const (
	TypeWaitingStatus = "WAITING_STATUS"
	TypeGameStart     = "GAME_START"
	TypeError         = "ERROR"
)

// InboundMessage 入站消息的 JSON 结构
// 示例：{"type":"CHAT_MESSAGE","message":"hello"}
// Type 用指针区分"缺失/非字符串"（非法输入）与"空串"（未知类型）
type InboundMessage struct {
	Type    *string `json:"type"`
	Message string  `json:"message,omitempty"`
}

// Notice 通用提示（非法输入、未知类型时的裸响应）
type Notice struct {
	Message string `json:"message"`
}

// StatusMessage 排队确认与路由错误共用的带类型响应
type StatusMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GameStartMessage 开局通知，携带角色与房间标识
type GameStartMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	RoomID  string `json:"roomID"`
	Role    Role   `json:"role"`
}

// ChatBroadcast 房间内聊天的扇出载荷
type ChatBroadcast struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Role    Role   `json:"role"`
	Message string `json:"message"`
}

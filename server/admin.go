package server

import (
	"encoding/json"
	"net/http"
)

// HandleMetrics 输出注册表的运行指标与实时水位
// GET /metrics
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reg := GetRegistry()
	payload := map[string]any{
		"players": reg.PlayerCount(),
		"waiting": reg.WaitingCount(),
		"rooms":   len(reg.Rooms()),
		"metrics": reg.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleAdminRooms 列出活跃房间及成员角色，排障用
// GET /admin/rooms
func HandleAdminRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type memberInfo struct {
		Name string `json:"name"`
		Role Role   `json:"role"`
	}
	type roomInfo struct {
		RoomID  string       `json:"roomID"`
		Members []memberInfo `json:"members"`
	}

	reg := GetRegistry()
	rooms := reg.Rooms()
	out := make([]roomInfo, 0, len(rooms))
	for _, room := range rooms {
		info := roomInfo{RoomID: room.ID}
		for _, m := range room.Members() {
			info.Members = append(info.Members, memberInfo{Name: m.Name, Role: m.Role})
		}
		out = append(out, info)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"rooms": out})
}

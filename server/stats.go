package server

import "time"

// StartStatsLoop 周期性输出注册表水位日志，便于观察排队与开房节奏
// interval 为 0 时使用默认 30s
func (reg *Registry) StartStatsLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			Log.Infof("stats: players=%d waiting=%d rooms=%d",
				reg.PlayerCount(), reg.WaitingCount(), len(reg.Rooms()))
		}
	}()
}

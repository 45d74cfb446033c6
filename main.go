package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtchat/server"
)

// CourtChat 入口：启动 HTTP + WebSocket 服务，并初始化匹配注册表
func main() {
	var addr string
	var logFile string
	var statsEvery time.Duration
	flag.StringVar(&addr, "addr", ":8080", "server listen address, e.g. :8080")
	flag.StringVar(&logFile, "log", "app.log", "log file path")
	flag.DurationVar(&statsEvery, "stats-interval", 30*time.Second, "interval between stats log lines")
	flag.Parse()
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(logFile); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	reg := server.GetRegistry()
	reg.StartStatsLoop(statsEvery)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	// 管理与监控接口
	mux.HandleFunc("/metrics", server.HandleMetrics)
	mux.HandleFunc("/admin/rooms", server.HandleAdminRooms)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("CourtChat listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
}

package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"talent_realtime_service/pkg/config"
	"talent_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof 非 production 且有設定位址時啟動 pprof 監控伺服器
// 建議只綁 127.0.0.1，例如 "127.0.0.1:6060"
func StartPprof(addr string) {
	if config.IsProduction() || addr == "" {
		logger.Log.Info("pprof is disabled")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Log.Error("pprof server failed", zap.Error(err))
		}
	}()
}

// 常用端點:
// 	•	/debug/pprof/goroutine → 每條連線固定兩個 goroutine (read / write)，洩漏時這裡會先看到
// 	•	/debug/pprof/heap → 記憶體分配
// 	•	/debug/pprof/profile → 30 秒 CPU 分析
//
// go tool pprof http://127.0.0.1:6060/debug/pprof/goroutine

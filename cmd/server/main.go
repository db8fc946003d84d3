// @title FocusPlanner API
// @version 1.0
// @description 清单与任务管理 API
// @host localhost:3000
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	applog "github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/focusplanner/backend/internal/infrastructure/singleton"
	"github.com/focusplanner/backend/internal/wire"
)

// shutdownTimeout 优雅关闭等待时间
const shutdownTimeout = 10 * time.Second

func main() {
	// 初始化日志系统
	applog.Init(nil)
	logger := applog.GetLogger()

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll()
	if err != nil {
		logger.Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}
	defer cleanup()

	// 启动所有服务
	if err := app.Start(); err != nil {
		if errors.Is(err, singleton.ErrAlreadyRunning) {
			// 已有实例运行，直接退出
			logger.Info("Another instance is already running, exiting")
			cleanup()
			os.Exit(0)
		}
		logger.Error("Failed to start application",
			"error", err,
		)
		cleanup()
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
	case err := <-app.Errors():
		logger.Error("Application failed", "error", err)
		exitCode = 1
	}

	logger.Info("Shutting down application...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")

	if exitCode != 0 {
		cancel()
		cleanup()
		os.Exit(exitCode)
	}
}

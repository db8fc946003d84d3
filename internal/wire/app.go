package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/focusplanner/backend/internal/infrastructure/config"
	applog "github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/focusplanner/backend/internal/infrastructure/singleton"
	"github.com/focusplanner/backend/internal/infrastructure/websocket"
	"github.com/focusplanner/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	Config     *config.Config
	wsHub      *websocket.Hub
	errCh      chan error
	logger     *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	cfg *config.Config,
	httpServer *interfaces.HTTPServer,
	wsHub *websocket.Hub,
) *App {
	return &App{
		HTTPServer: httpServer,
		Config:     cfg,
		wsHub:      wsHub,
		errCh:      make(chan error, 1),
		logger:     applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
// 文件存储只允许一个进程写入，此时通过独占监听地址保证单实例
func (a *App) Start() error {
	a.logger.Info("Starting focusplanner backend",
		"store", a.Config.Storage.Backend,
		"addr", a.HTTPServer.Addr(),
	)

	listener, err := a.listen()
	if err != nil {
		return err
	}

	a.wsHub.Start()

	go func() {
		if err := a.HTTPServer.Serve(listener); err != nil {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
			a.errCh <- err
		}
	}()
	return nil
}

// Errors HTTP 服务异常退出时返回错误
func (a *App) Errors() <-chan error {
	return a.errCh
}

// Stop 停止所有服务
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Stopping focusplanner backend")

	err := a.HTTPServer.Shutdown(ctx)
	a.wsHub.Stop()
	if err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

func (a *App) listen() (net.Listener, error) {
	addr := a.HTTPServer.Addr()
	if a.Config.Storage.Backend != config.BackendFile {
		return net.Listen("tcp", addr)
	}

	listener, err := singleton.CheckAndLock(addr)
	if errors.Is(err, singleton.ErrAlreadyRunning) {
		a.logger.Warn("Another instance already owns the snapshot file",
			"addr", addr,
			"path", a.Config.Storage.File.SnapshotPath(),
		)
	}
	return listener, err
}

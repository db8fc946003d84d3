package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/focusplanner/backend/internal/interfaces/http/handler"
	"github.com/focusplanner/backend/internal/interfaces/http/middleware"
	"github.com/focusplanner/backend/internal/interfaces/http/response"
	"github.com/focusplanner/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/focusplanner/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	handler  http.Handler
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	plannerHandler *handler.PlannerHandler,
	eventsHandler *handler.EventsHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	api := router.Group("/api")
	{
		api.GET("/lists", plannerHandler.ListAll)
		api.POST("/lists", plannerHandler.CreateList)
		api.DELETE("/lists/:listId", plannerHandler.DeleteList)
		api.POST("/lists/:listId/tasks", plannerHandler.CreateTask)
		api.POST("/lists/:listId/tasks/:taskId/toggle", plannerHandler.ToggleTask)
		api.DELETE("/lists/:listId/tasks/:taskId", plannerHandler.DeleteTask)

		// 变更事件流
		if eventsHandler != nil {
			api.GET("/events", eventsHandler.Stream)
		}
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	router.NoRoute(noRoute(cfg.StaticDir))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	})

	return &HTTPServer{
		router:   router,
		handler:  corsHandler.Handler(router),
		httpPort: cfg.HTTPPort,
		logger:   logger,
	}
}

// Handler 返回包含 CORS 的根 Handler
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Addr 监听地址
func (s *HTTPServer) Addr() string {
	return s.httpPort
}

// Serve 在已有 listener 上启动服务器
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"addr", listener.Addr().String(),
	)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// noRoute 未匹配路由：API 路径返回 404，其余 GET 请求回退到前端静态文件
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if staticDir == "" || !isRead || reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "route not found")
			return
		}

		// path.Clean 以 / 开头，保证不会越出静态目录
		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+reqPath)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

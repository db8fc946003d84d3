package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appPlanner "github.com/focusplanner/backend/internal/application/planner"
	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errInternal 存储故障时返回给调用方的固定错误
var errInternal = errors.New("internal server error")

// Version MCP 服务版本
const Version = "0.1.0"

// MCPServer MCP 服务器，将清单与任务操作暴露为工具
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service *appPlanner.Service
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service *appPlanner.Service) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "focusplanner",
			Version: Version,
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_lists",
		Description: "List every task list with its tasks in creation order. No parameters required.",
	}, s.listListsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_list",
		Description: "Create a task list. Parameters: name (string, required) - list name, surrounding whitespace is trimmed. Returns the new list.",
	}, s.createListTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_list",
		Description: "Delete a task list and all of its tasks. Parameters: list_id (string, required).",
	}, s.deleteListTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "create_task",
		Description: `Add a task to a list.
Parameters:
- list_id (string, required)
- text (string, required): task text, surrounding whitespace is trimmed
- due_date (string, optional): YYYY-MM-DD
- due_time (string, optional): HH:MM, ignored without due_date

Returns the new task.`,
	}, s.createTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Flip the done flag of a task. Parameters: list_id (string, required), task_id (string, required). Returns the updated task.",
	}, s.toggleTaskTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task. Parameters: list_id (string, required), task_id (string, required).",
	}, s.deleteTaskTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Server 底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// toolError 将领域错误转换为工具错误
// 参数错误与不存在原样返回，其余错误只记录日志
func (s *MCPServer) toolError(ctx context.Context, tool string, err error) error {
	if errors.Is(err, domainPlanner.ErrInvalidArgument) || errors.Is(err, domainPlanner.ErrNotFound) {
		return err
	}
	log.FromContext(ctx, s.logger).Error("Tool call failed",
		"tool", tool,
		"error", err,
	)
	return errInternal
}

package mcp

import (
	"context"

	appPlanner "github.com/focusplanner/backend/internal/application/planner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListListsInput 查询清单工具输入（空输入）
type ListListsInput struct{}

// ListListsOutput 查询清单工具输出
type ListListsOutput struct {
	Lists []*appPlanner.ListDTO `json:"lists" jsonschema:"全部清单，按创建时间排序"`
}

// CreateListInput 创建清单工具输入
type CreateListInput struct {
	Name string `json:"name" jsonschema:"清单名称"`
}

// CreateTaskInput 创建任务工具输入
type CreateTaskInput struct {
	ListID  string `json:"list_id" jsonschema:"清单 ID"`
	Text    string `json:"text" jsonschema:"任务内容"`
	DueDate string `json:"due_date,omitempty" jsonschema:"截止日期 YYYY-MM-DD（可选）"`
	DueTime string `json:"due_time,omitempty" jsonschema:"截止时间 HH:MM（可选）"`
}

// ListRefInput 指定清单的工具输入
type ListRefInput struct {
	ListID string `json:"list_id" jsonschema:"清单 ID"`
}

// TaskRefInput 指定任务的工具输入
type TaskRefInput struct {
	ListID string `json:"list_id" jsonschema:"清单 ID"`
	TaskID string `json:"task_id" jsonschema:"任务 ID"`
}

// DeletedOutput 删除类工具输出
type DeletedOutput struct {
	Deleted bool `json:"deleted" jsonschema:"是否已删除"`
}

func (s *MCPServer) listListsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListListsInput,
) (*mcp.CallToolResult, ListListsOutput, error) {
	lists, err := s.service.ListAll(ctx)
	if err != nil {
		return nil, ListListsOutput{}, s.toolError(ctx, "list_lists", err)
	}
	return nil, ListListsOutput{Lists: lists.Lists}, nil
}

func (s *MCPServer) createListTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateListInput,
) (*mcp.CallToolResult, appPlanner.ListDTO, error) {
	list, err := s.service.CreateList(ctx, &appPlanner.CreateListDTO{Name: input.Name})
	if err != nil {
		return nil, appPlanner.ListDTO{}, s.toolError(ctx, "create_list", err)
	}
	return nil, *list, nil
}

func (s *MCPServer) deleteListTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListRefInput,
) (*mcp.CallToolResult, DeletedOutput, error) {
	if err := s.service.DeleteList(ctx, input.ListID); err != nil {
		return nil, DeletedOutput{}, s.toolError(ctx, "delete_list", err)
	}
	return nil, DeletedOutput{Deleted: true}, nil
}

func (s *MCPServer) createTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTaskInput,
) (*mcp.CallToolResult, appPlanner.TaskDTO, error) {
	dto := &appPlanner.CreateTaskDTO{Text: input.Text}
	if input.DueDate != "" {
		dto.DueDate = &input.DueDate
	}
	if input.DueTime != "" {
		dto.DueTime = &input.DueTime
	}

	task, err := s.service.CreateTask(ctx, input.ListID, dto)
	if err != nil {
		return nil, appPlanner.TaskDTO{}, s.toolError(ctx, "create_task", err)
	}
	return nil, *task, nil
}

func (s *MCPServer) toggleTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TaskRefInput,
) (*mcp.CallToolResult, appPlanner.TaskDTO, error) {
	task, err := s.service.ToggleTask(ctx, input.ListID, input.TaskID)
	if err != nil {
		return nil, appPlanner.TaskDTO{}, s.toolError(ctx, "toggle_task", err)
	}
	return nil, *task, nil
}

func (s *MCPServer) deleteTaskTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TaskRefInput,
) (*mcp.CallToolResult, DeletedOutput, error) {
	if err := s.service.DeleteTask(ctx, input.ListID, input.TaskID); err != nil {
		return nil, DeletedOutput{}, s.toolError(ctx, "delete_task", err)
	}
	return nil, DeletedOutput{Deleted: true}, nil
}

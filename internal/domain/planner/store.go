package planner

import "context"

// Store 清单与任务的持久化契约
// 所有后端实现必须具有相同的外部可观察语义
type Store interface {
	// ListAll 返回全部清单（按创建时间升序），每个清单包含按创建时间升序的任务
	ListAll(ctx context.Context) ([]*List, error)

	// CreateList 持久化新清单，ID 与 CreatedAt 由调用方生成
	CreateList(ctx context.Context, list *List) error

	// DeleteList 删除清单并级联删除其全部任务
	DeleteList(ctx context.Context, listID string) error

	// CreateTask 在已存在的清单下持久化新任务
	CreateTask(ctx context.Context, task *Task) error

	// ToggleTask 翻转任务完成状态并返回翻转后的任务
	ToggleTask(ctx context.Context, listID, taskID string) (*Task, error)

	// DeleteTask 删除清单下的任务
	DeleteTask(ctx context.Context, listID, taskID string) error

	// Close 释放底层资源
	Close() error
}

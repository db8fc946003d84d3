package planner

import (
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
)

// CreateListDTO 创建清单请求
type CreateListDTO struct {
	Name string `json:"name"`
}

// CreateTaskDTO 创建任务请求
type CreateTaskDTO struct {
	Text    string  `json:"text"`
	DueDate *string `json:"dueDate"`
	DueTime *string `json:"dueTime"`
}

// ListsDTO 全量数据响应
type ListsDTO struct {
	Lists []*ListDTO `json:"lists"`
}

// ListDTO 清单响应
type ListDTO struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Tasks []*TaskDTO `json:"tasks"`
}

// TaskDTO 任务响应
// 在清单内返回时不带 listId；单独返回时带 listId
// dueDate/dueTime 缺省时输出 null 而不是省略
type TaskDTO struct {
	ID      string  `json:"id"`
	ListID  string  `json:"listId,omitempty"`
	Text    string  `json:"text"`
	Done    bool    `json:"done"`
	DueDate *string `json:"dueDate"`
	DueTime *string `json:"dueTime"`
}

// 变更事件类型
const (
	EventListCreated = "list.created"
	EventListDeleted = "list.deleted"
	EventTaskCreated = "task.created"
	EventTaskToggled = "task.toggled"
	EventTaskDeleted = "task.deleted"
)

// ChangeEvent 数据变更事件，推送给订阅方
type ChangeEvent struct {
	Type   string    `json:"type"`
	ListID string    `json:"listId"`
	TaskID string    `json:"taskId,omitempty"`
	At     time.Time `json:"at"`
}

// toListDTO 将领域模型转换为 DTO
func toListDTO(list *domainPlanner.List) *ListDTO {
	dto := &ListDTO{
		ID:    list.ID,
		Name:  list.Name,
		Tasks: make([]*TaskDTO, 0, len(list.Tasks)),
	}
	for _, task := range list.Tasks {
		t := toTaskDTO(task)
		t.ListID = ""
		dto.Tasks = append(dto.Tasks, t)
	}
	return dto
}

// toTaskDTO 将领域模型转换为 DTO
func toTaskDTO(task *domainPlanner.Task) *TaskDTO {
	return &TaskDTO{
		ID:      task.ID,
		ListID:  task.ListID,
		Text:    task.Text,
		Done:    task.Done,
		DueDate: task.DueDate,
		DueTime: task.DueTime,
	}
}

package planner

import (
	"strings"
	"time"
)

// List 任务清单实体
type List struct {
	ID        string    // 唯一标识
	Name      string    // 清单名称
	CreatedAt time.Time // 创建时间
	Tasks     []*Task   // 按创建顺序排列的任务
}

// Task 任务实体
type Task struct {
	ID        string    // 唯一标识
	ListID    string    // 所属清单 ID
	Text      string    // 任务内容
	Done      bool      // 是否完成
	DueDate   *string   // 截止日期 YYYY-MM-DD（可选）
	DueTime   *string   // 截止时间 HH:MM（可选，仅在有截止日期时有意义）
	CreatedAt time.Time // 创建时间
}

// Toggle 翻转完成状态
func (t *Task) Toggle() {
	t.Done = !t.Done
}

// Clone 返回任务副本，截止日期/时间指针不与原任务共享
func (t *Task) Clone() *Task {
	c := *t
	c.DueDate = cloneString(t.DueDate)
	c.DueTime = cloneString(t.DueTime)
	return &c
}

// Clone 返回清单副本（包含任务副本）
func (l *List) Clone() *List {
	c := *l
	c.Tasks = make([]*Task, 0, len(l.Tasks))
	for _, task := range l.Tasks {
		c.Tasks = append(c.Tasks, task.Clone())
	}
	return &c
}

// ValidateList 校验清单，名称会被去除首尾空白
func ValidateList(list *List) error {
	list.Name = strings.TrimSpace(list.Name)
	if list.Name == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateTask 校验任务，内容会被去除首尾空白，截止日期/时间会被规范化
func ValidateTask(task *Task) error {
	task.Text = strings.TrimSpace(task.Text)
	if task.Text == "" {
		return ErrTextRequired
	}
	dueDate, dueTime, err := NormalizeDue(task.DueDate, task.DueTime)
	if err != nil {
		return err
	}
	task.DueDate = dueDate
	task.DueTime = dueTime
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

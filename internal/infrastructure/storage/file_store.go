package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/log"
)

// snapshot 快照文件格式
type snapshot struct {
	Lists []snapshotList `json:"lists"`
}

type snapshotList struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Tasks     []snapshotTask `json:"tasks"`
}

type snapshotTask struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	DueDate   *string   `json:"dueDate"`
	DueTime   *string   `json:"dueTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileStore 基于 JSON 快照文件的存储
// 完整模型常驻内存；每次修改先落盘再替换内存状态
type FileStore struct {
	mu       sync.Mutex
	filePath string
	lists    []*domainPlanner.List
	logger   *slog.Logger
}

// NewFileStore 创建文件存储，文件不存在时视为空
func NewFileStore(filePath string) (*FileStore, error) {
	lists, err := loadSnapshot(filePath)
	if err != nil {
		return nil, err
	}
	return &FileStore{
		filePath: filePath,
		lists:    lists,
		logger:   log.NewModuleLogger("storage", "file"),
	}, nil
}

// ListAll 返回全部清单的副本，清单与任务均按创建时间排序
// 并发创建时写入顺序可能与时间戳不一致，因此在读取时排序
func (s *FileStore) ListAll(ctx context.Context) ([]*domainPlanner.List, error) {
	s.mu.Lock()
	out := cloneLists(s.lists)
	s.mu.Unlock()

	domainPlanner.SortLists(out)
	for _, list := range out {
		domainPlanner.SortTasks(list.Tasks)
	}
	return out, nil
}

// CreateList 追加清单
func (s *FileStore) CreateList(ctx context.Context, list *domainPlanner.List) error {
	if err := domainPlanner.ValidateList(list); err != nil {
		return err
	}
	list.Tasks = []*domainPlanner.Task{}

	return s.mutate(func(next []*domainPlanner.List) ([]*domainPlanner.List, error) {
		return append(next, list.Clone()), nil
	})
}

// DeleteList 删除清单及其全部任务
func (s *FileStore) DeleteList(ctx context.Context, listID string) error {
	return s.mutate(func(next []*domainPlanner.List) ([]*domainPlanner.List, error) {
		idx := indexOfList(next, listID)
		if idx < 0 {
			return nil, domainPlanner.ErrListNotFound
		}
		return append(next[:idx], next[idx+1:]...), nil
	})
}

// CreateTask 向清单追加任务
func (s *FileStore) CreateTask(ctx context.Context, task *domainPlanner.Task) error {
	if err := domainPlanner.ValidateTask(task); err != nil {
		return err
	}

	return s.mutate(func(next []*domainPlanner.List) ([]*domainPlanner.List, error) {
		idx := indexOfList(next, task.ListID)
		if idx < 0 {
			return nil, domainPlanner.ErrListNotFound
		}
		next[idx].Tasks = append(next[idx].Tasks, task.Clone())
		return next, nil
	})
}

// ToggleTask 翻转任务完成状态
func (s *FileStore) ToggleTask(ctx context.Context, listID, taskID string) (*domainPlanner.Task, error) {
	var toggled *domainPlanner.Task
	err := s.mutate(func(next []*domainPlanner.List) ([]*domainPlanner.List, error) {
		task := findTask(next, listID, taskID)
		if task == nil {
			return nil, domainPlanner.ErrTaskNotFound
		}
		task.Toggle()
		toggled = task.Clone()
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// DeleteTask 删除任务
func (s *FileStore) DeleteTask(ctx context.Context, listID, taskID string) error {
	return s.mutate(func(next []*domainPlanner.List) ([]*domainPlanner.List, error) {
		idx := indexOfList(next, listID)
		if idx < 0 {
			return nil, domainPlanner.ErrTaskNotFound
		}
		tasks := next[idx].Tasks
		for i, task := range tasks {
			if task.ID == taskID {
				next[idx].Tasks = append(tasks[:i], tasks[i+1:]...)
				return next, nil
			}
		}
		return nil, domainPlanner.ErrTaskNotFound
	})
}

// Close 文件存储无需释放资源
func (s *FileStore) Close() error {
	return nil
}

// mutate 在副本上执行修改，持久化成功后才替换内存状态
func (s *FileStore) mutate(fn func(next []*domainPlanner.List) ([]*domainPlanner.List, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneLists(s.lists))
	if err != nil {
		return err
	}

	if err := writeSnapshot(s.filePath, next); err != nil {
		s.logger.Error("Failed to persist snapshot",
			"path", s.filePath,
			"error", err,
		)
		return domainPlanner.Unavailable("persist snapshot", err)
	}

	s.lists = next
	return nil
}

// loadSnapshot 读取快照文件
func loadSnapshot(filePath string) ([]*domainPlanner.List, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domainPlanner.List{}, nil
		}
		return nil, domainPlanner.Unavailable("read snapshot", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, domainPlanner.Unavailable("parse snapshot", err)
	}

	lists := make([]*domainPlanner.List, 0, len(snap.Lists))
	for _, sl := range snap.Lists {
		list := &domainPlanner.List{
			ID:        sl.ID,
			Name:      sl.Name,
			CreatedAt: sl.CreatedAt,
			Tasks:     make([]*domainPlanner.Task, 0, len(sl.Tasks)),
		}
		for _, st := range sl.Tasks {
			list.Tasks = append(list.Tasks, &domainPlanner.Task{
				ID:        st.ID,
				ListID:    sl.ID,
				Text:      st.Text,
				Done:      st.Done,
				DueDate:   st.DueDate,
				DueTime:   st.DueTime,
				CreatedAt: st.CreatedAt,
			})
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// writeSnapshot 原子写入快照：同目录临时文件 + fsync + rename
func writeSnapshot(filePath string, lists []*domainPlanner.List) error {
	snap := snapshot{Lists: make([]snapshotList, 0, len(lists))}
	for _, list := range lists {
		sl := snapshotList{
			ID:        list.ID,
			Name:      list.Name,
			CreatedAt: list.CreatedAt,
			Tasks:     make([]snapshotTask, 0, len(list.Tasks)),
		}
		for _, task := range list.Tasks {
			sl.Tasks = append(sl.Tasks, snapshotTask{
				ID:        task.ID,
				Text:      task.Text,
				Done:      task.Done,
				DueDate:   task.DueDate,
				DueTime:   task.DueTime,
				CreatedAt: task.CreatedAt,
			})
		}
		snap.Lists = append(snap.Lists, sl)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func cloneLists(lists []*domainPlanner.List) []*domainPlanner.List {
	out := make([]*domainPlanner.List, 0, len(lists))
	for _, list := range lists {
		out = append(out, list.Clone())
	}
	return out
}

func indexOfList(lists []*domainPlanner.List, listID string) int {
	for i, list := range lists {
		if list.ID == listID {
			return i
		}
	}
	return -1
}

func findTask(lists []*domainPlanner.List, listID, taskID string) *domainPlanner.Task {
	idx := indexOfList(lists, listID)
	if idx < 0 {
		return nil
	}
	for _, task := range lists[idx].Tasks {
		if task.ID == taskID {
			return task
		}
	}
	return nil
}

// 编译时检查接口实现
var _ domainPlanner.Store = (*FileStore)(nil)

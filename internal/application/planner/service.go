package planner

import (
	"context"
	"log/slog"
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/google/uuid"
)

// Service 清单/任务应用服务
// 负责输入校验、ID 与时间戳生成，并在变更成功后推送事件
type Service struct {
	store  domainPlanner.Store
	pusher Pusher
	logger *slog.Logger

	newID func() string
	now   func() time.Time
}

// Option 服务选项
type Option func(*Service)

// WithClock 替换时间源（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator 替换 ID 生成器（测试用）
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService 创建应用服务
func NewService(store domainPlanner.Store, pusher Pusher, opts ...Option) *Service {
	if pusher == nil {
		pusher = noopPusher{}
	}
	s := &Service{
		store:  store,
		pusher: pusher,
		logger: log.NewModuleLogger("planner", "service"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll 获取全部清单及任务
func (s *Service) ListAll(ctx context.Context) (*ListsDTO, error) {
	lists, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListsDTO{Lists: make([]*ListDTO, 0, len(lists))}
	for _, list := range lists {
		result.Lists = append(result.Lists, toListDTO(list))
	}
	return result, nil
}

// CreateList 创建清单
func (s *Service) CreateList(ctx context.Context, dto *CreateListDTO) (*ListDTO, error) {
	list := &domainPlanner.List{
		ID:        s.newID(),
		Name:      dto.Name,
		CreatedAt: s.now(),
		Tasks:     []*domainPlanner.Task{},
	}
	if err := domainPlanner.ValidateList(list); err != nil {
		return nil, err
	}

	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, err
	}

	s.push(EventListCreated, list.ID, "")
	return toListDTO(list), nil
}

// DeleteList 删除清单（级联删除任务）
func (s *Service) DeleteList(ctx context.Context, listID string) error {
	if listID == "" {
		return domainPlanner.ErrListNotFound
	}
	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}

	s.push(EventListDeleted, listID, "")
	return nil
}

// CreateTask 在清单下创建任务
func (s *Service) CreateTask(ctx context.Context, listID string, dto *CreateTaskDTO) (*TaskDTO, error) {
	if listID == "" {
		return nil, domainPlanner.ErrListNotFound
	}

	task := &domainPlanner.Task{
		ID:        s.newID(),
		ListID:    listID,
		Text:      dto.Text,
		Done:      false,
		DueDate:   dto.DueDate,
		DueTime:   dto.DueTime,
		CreatedAt: s.now(),
	}
	if err := domainPlanner.ValidateTask(task); err != nil {
		return nil, err
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.push(EventTaskCreated, listID, task.ID)
	return toTaskDTO(task), nil
}

// ToggleTask 翻转任务完成状态
func (s *Service) ToggleTask(ctx context.Context, listID, taskID string) (*TaskDTO, error) {
	if listID == "" || taskID == "" {
		return nil, domainPlanner.ErrTaskNotFound
	}

	task, err := s.store.ToggleTask(ctx, listID, taskID)
	if err != nil {
		return nil, err
	}

	s.push(EventTaskToggled, listID, taskID)
	return toTaskDTO(task), nil
}

// DeleteTask 删除任务
func (s *Service) DeleteTask(ctx context.Context, listID, taskID string) error {
	if listID == "" || taskID == "" {
		return domainPlanner.ErrTaskNotFound
	}
	if err := s.store.DeleteTask(ctx, listID, taskID); err != nil {
		return err
	}

	s.push(EventTaskDeleted, listID, taskID)
	return nil
}

// push 推送变更事件，推送失败只记录日志
func (s *Service) push(eventType, listID, taskID string) {
	event := &ChangeEvent{
		Type:   eventType,
		ListID: listID,
		TaskID: taskID,
		At:     s.now(),
	}
	if err := s.pusher.PushChange(event); err != nil {
		s.logger.Warn("Failed to push change event",
			"type", eventType,
			"list_id", listID,
			"error", err,
		)
	}
}

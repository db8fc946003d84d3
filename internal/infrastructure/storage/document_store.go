package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	// couchTimeLayout 定宽 UTC 时间格式，字典序即时间序
	couchTimeLayout = "2006-01-02T15:04:05.000000000Z"

	// maxConflictRetries 修订冲突最大重试次数
	maxConflictRetries = 32
)

// errTooManyConflicts 冲突重试耗尽
var errTooManyConflicts = errors.New("too many update conflicts")

// DocumentStore 基于 CouchDB 的文档存储
type DocumentStore struct {
	client *couchClient
	logger *slog.Logger
}

// NewDocumentStore 创建文档存储并确保数据库存在
func NewDocumentStore(ctx context.Context, cfg *config.CouchDBConfig) (*DocumentStore, error) {
	client := newCouchClient(cfg)
	if err := client.ensureDB(ctx); err != nil {
		return nil, domainPlanner.Unavailable("ensure database", err)
	}
	return &DocumentStore{
		client: client,
		logger: log.NewModuleLogger("storage", "document"),
	}, nil
}

// ListAll 并发查询清单与任务文档，在内存中合并
func (s *DocumentStore) ListAll(ctx context.Context) ([]*domainPlanner.List, error) {
	var listDocs, taskDocs []couchDoc

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		listDocs, err = s.client.find(ctx, map[string]any{"type": docTypeList})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		taskDocs, err = s.client.find(ctx, map[string]any{"type": docTypeTask})
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, domainPlanner.Unavailable("list all", err)
	}

	sortDocs(listDocs)
	sortDocs(taskDocs)

	lists := make([]*domainPlanner.List, 0, len(listDocs))
	for i := range listDocs {
		lists = append(lists, listFromDoc(&listDocs[i]))
	}
	tasks := make([]*domainPlanner.Task, 0, len(taskDocs))
	for i := range taskDocs {
		tasks = append(tasks, taskFromDoc(&taskDocs[i]))
	}
	return domainPlanner.Assemble(lists, tasks), nil
}

// CreateList 写入清单文档
func (s *DocumentStore) CreateList(ctx context.Context, list *domainPlanner.List) error {
	if err := domainPlanner.ValidateList(list); err != nil {
		return err
	}

	doc := &couchDoc{
		ID:        list.ID,
		Type:      docTypeList,
		Name:      list.Name,
		CreatedAt: formatCouchTime(list.CreatedAt),
	}
	if _, err := s.client.put(ctx, doc); err != nil {
		return domainPlanner.Unavailable("create list", err)
	}
	if list.Tasks == nil {
		list.Tasks = []*domainPlanner.Task{}
	}
	return nil
}

// DeleteList 通过 _bulk_docs 删除清单及其任务（任务在前）
func (s *DocumentStore) DeleteList(ctx context.Context, listID string) error {
	listGone := false
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		var listDoc *couchDoc
		if !listGone {
			doc, found, err := s.client.get(ctx, listID)
			if err != nil {
				return domainPlanner.Unavailable("delete list", err)
			}
			if !found || doc.Type != docTypeList {
				return domainPlanner.ErrListNotFound
			}
			listDoc = doc
		}

		taskDocs, err := s.client.find(ctx, map[string]any{"type": docTypeTask, "listId": listID})
		if err != nil {
			return domainPlanner.Unavailable("delete list", err)
		}

		docs := make([]tombstone, 0, len(taskDocs)+1)
		for _, doc := range taskDocs {
			docs = append(docs, tombstone{ID: doc.ID, Rev: doc.Rev, Deleted: true})
		}
		if listDoc != nil {
			docs = append(docs, tombstone{ID: listDoc.ID, Rev: listDoc.Rev, Deleted: true})
		}
		if len(docs) == 0 {
			return nil
		}

		results, err := s.client.bulkDelete(ctx, docs)
		if err != nil {
			return domainPlanner.Unavailable("delete list", err)
		}

		conflicted := false
		for _, result := range results {
			switch {
			case result.Error == "":
				if result.ID == listID {
					listGone = true
				}
			case result.Error == "conflict":
				conflicted = true
			case result.Error == "not_found":
			default:
				return domainPlanner.Unavailable("delete list",
					fmt.Errorf("document %s: %s: %s", result.ID, result.Error, result.Reason))
			}
		}
		if !conflicted {
			return nil
		}

		s.logger.Debug("Delete list conflicted, retrying",
			"list_id", listID,
			"attempt", attempt+1,
		)
	}
	return domainPlanner.Unavailable("delete list", errTooManyConflicts)
}

// CreateTask 确认清单存在后写入任务文档
func (s *DocumentStore) CreateTask(ctx context.Context, task *domainPlanner.Task) error {
	if err := domainPlanner.ValidateTask(task); err != nil {
		return err
	}

	exists, err := s.listExists(ctx, task.ListID)
	if err != nil {
		return domainPlanner.Unavailable("create task", err)
	}
	if !exists {
		return domainPlanner.ErrListNotFound
	}

	doc := &couchDoc{
		ID:        task.ID,
		Type:      docTypeTask,
		ListID:    task.ListID,
		Text:      task.Text,
		Done:      task.Done,
		DueDate:   task.DueDate,
		DueTime:   task.DueTime,
		CreatedAt: formatCouchTime(task.CreatedAt),
	}
	if _, err := s.client.put(ctx, doc); err != nil {
		return domainPlanner.Unavailable("create task", err)
	}
	return nil
}

// ToggleTask 基于 _rev 的乐观并发翻转，冲突时重新读取并重试
func (s *DocumentStore) ToggleTask(ctx context.Context, listID, taskID string) (*domainPlanner.Task, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		doc, err := s.loadTask(ctx, listID, taskID)
		if err != nil {
			return nil, err
		}

		doc.Done = !doc.Done
		rev, err := s.client.put(ctx, doc)
		if errors.Is(err, errConflict) {
			if err := backoff(ctx, attempt); err != nil {
				return nil, domainPlanner.Unavailable("toggle task", err)
			}
			continue
		}
		if err != nil {
			return nil, domainPlanner.Unavailable("toggle task", err)
		}

		doc.Rev = rev
		return taskFromDoc(doc), nil
	}
	return nil, domainPlanner.Unavailable("toggle task", errTooManyConflicts)
}

// DeleteTask 基于 _rev 删除任务文档
func (s *DocumentStore) DeleteTask(ctx context.Context, listID, taskID string) error {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		doc, err := s.loadTask(ctx, listID, taskID)
		if err != nil {
			return err
		}

		deleted, err := s.client.remove(ctx, doc.ID, doc.Rev)
		if errors.Is(err, errConflict) {
			if err := backoff(ctx, attempt); err != nil {
				return domainPlanner.Unavailable("delete task", err)
			}
			continue
		}
		if err != nil {
			return domainPlanner.Unavailable("delete task", err)
		}
		if !deleted {
			return domainPlanner.ErrTaskNotFound
		}
		return nil
	}
	return domainPlanner.Unavailable("delete task", errTooManyConflicts)
}

// Close 文档存储无需释放资源
func (s *DocumentStore) Close() error {
	return nil
}

// loadTask 读取属于 listID 且清单仍存在的任务文档
func (s *DocumentStore) loadTask(ctx context.Context, listID, taskID string) (*couchDoc, error) {
	doc, found, err := s.client.get(ctx, taskID)
	if err != nil {
		return nil, domainPlanner.Unavailable("get task", err)
	}
	if !found || doc.Type != docTypeTask || doc.ListID != listID {
		return nil, domainPlanner.ErrTaskNotFound
	}

	// 清单已删除时遗留的任务不可见
	exists, err := s.listExists(ctx, listID)
	if err != nil {
		return nil, domainPlanner.Unavailable("get list", err)
	}
	if !exists {
		return nil, domainPlanner.ErrTaskNotFound
	}
	return doc, nil
}

// listExists 检查清单文档是否存在
func (s *DocumentStore) listExists(ctx context.Context, listID string) (bool, error) {
	doc, found, err := s.client.get(ctx, listID)
	if err != nil {
		return false, err
	}
	return found && doc.Type == docTypeList, nil
}

// backoff 冲突后短暂等待
func backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt+1) * 2 * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatCouchTime(t time.Time) string {
	return t.UTC().Format(couchTimeLayout)
}

func parseCouchTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// sortDocs 按 createdAt 时间排序，相同时按 _id
// 旧文档的时间戳精度为毫秒，与纳秒格式混排时不能按字符串比较
func sortDocs(docs []couchDoc) {
	created := make(map[string]time.Time, len(docs))
	for i := range docs {
		created[docs[i].ID] = parseCouchTime(docs[i].CreatedAt)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		ti, tj := created[docs[i].ID], created[docs[j].ID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return docs[i].ID < docs[j].ID
	})
}

func listFromDoc(doc *couchDoc) *domainPlanner.List {
	return &domainPlanner.List{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: parseCouchTime(doc.CreatedAt),
		Tasks:     []*domainPlanner.Task{},
	}
}

func taskFromDoc(doc *couchDoc) *domainPlanner.Task {
	task := &domainPlanner.Task{
		ID:        doc.ID,
		ListID:    doc.ListID,
		Text:      doc.Text,
		Done:      doc.Done,
		DueDate:   doc.DueDate,
		DueTime:   doc.DueTime,
		CreatedAt: parseCouchTime(doc.CreatedAt),
	}
	if task.DueDate == nil {
		task.DueTime = nil
	}
	return task
}

// 编译时检查接口实现
var _ domainPlanner.Store = (*DocumentStore)(nil)

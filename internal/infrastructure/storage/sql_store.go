package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	selectLists = `
		SELECT id, name, created_at
		FROM lists
		ORDER BY created_at ASC, seq ASC`

	selectTasks = `
		SELECT id, list_id, content, done, due_date, due_time, created_at
		FROM tasks`
)

// SQLStore 关系型存储实现（sqlite / postgres / mysql）
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// NewSQLStore 创建关系型存储并初始化表结构
func NewSQLStore(ctx context.Context, db *sql.DB, driver string) (*SQLStore, error) {
	d, ok := dialectFor(driver)
	if !ok {
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	if err := migrate(ctx, db, d); err != nil {
		return nil, err
	}
	return &SQLStore{
		db:      db,
		dialect: d,
		logger:  log.NewModuleLogger("storage", "sql"),
	}, nil
}

// ListAll 分别查询清单与任务，再按 list_id 合并
func (s *SQLStore) ListAll(ctx context.Context) ([]*domainPlanner.List, error) {
	var (
		lists []*domainPlanner.List
		tasks []*domainPlanner.Task
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		lists, err = s.queryLists(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		tasks, err = s.queryTasks(ctx, selectTasks+" ORDER BY created_at ASC, seq ASC")
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, domainPlanner.Unavailable("list all", err)
	}

	return domainPlanner.Assemble(lists, tasks), nil
}

// CreateList 插入清单
func (s *SQLStore) CreateList(ctx context.Context, list *domainPlanner.List) error {
	if err := domainPlanner.ValidateList(list); err != nil {
		return err
	}

	query := s.dialect.rebind(`INSERT INTO lists (id, name, created_at) VALUES (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, list.ID, list.Name, list.CreatedAt.UnixMilli()); err != nil {
		return domainPlanner.Unavailable("create list", err)
	}
	if list.Tasks == nil {
		list.Tasks = []*domainPlanner.Task{}
	}
	return nil
}

// DeleteList 在同一事务中删除任务与清单
// 外键 ON DELETE CASCADE 只作为兜底，级联在这里显式完成
func (s *SQLStore) DeleteList(ctx context.Context, listID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domainPlanner.Unavailable("delete list", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM tasks WHERE list_id = ?`), listID); err != nil {
		return domainPlanner.Unavailable("delete list tasks", err)
	}

	result, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM lists WHERE id = ?`), listID)
	if err != nil {
		return domainPlanner.Unavailable("delete list", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domainPlanner.Unavailable("delete list", err)
	}
	if affected == 0 {
		return domainPlanner.ErrListNotFound
	}

	if err := tx.Commit(); err != nil {
		return domainPlanner.Unavailable("delete list", err)
	}
	return nil
}

// CreateTask 条件插入：清单不存在时不插入任何行
func (s *SQLStore) CreateTask(ctx context.Context, task *domainPlanner.Task) error {
	if err := domainPlanner.ValidateTask(task); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(s.dialect.insertTask),
		task.ID,
		task.ListID,
		task.Text,
		task.Done,
		nullString(task.DueDate),
		nullString(task.DueTime),
		task.CreatedAt.UnixMilli(),
		task.ListID,
	)
	if err != nil {
		// 并发删除清单时外键约束也可能失败，统一按清单是否存在来判定
		if exists, checkErr := s.listExists(ctx, task.ListID); checkErr == nil && !exists {
			return domainPlanner.ErrListNotFound
		}
		return domainPlanner.Unavailable("create task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domainPlanner.Unavailable("create task", err)
	}
	if affected == 0 {
		return domainPlanner.ErrListNotFound
	}
	return nil
}

// ToggleTask 单条条件 UPDATE 翻转状态，并在同一事务中读回
func (s *SQLStore) ToggleTask(ctx context.Context, listID, taskID string) (*domainPlanner.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domainPlanner.Unavailable("toggle task", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		s.dialect.rebind(`UPDATE tasks SET done = NOT done WHERE id = ? AND list_id = ?`),
		taskID, listID,
	)
	if err != nil {
		return nil, domainPlanner.Unavailable("toggle task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, domainPlanner.Unavailable("toggle task", err)
	}
	if affected == 0 {
		return nil, domainPlanner.ErrTaskNotFound
	}

	task, err := scanTask(tx.QueryRowContext(ctx, s.dialect.rebind(selectTasks+" WHERE id = ?"), taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainPlanner.ErrTaskNotFound
		}
		return nil, domainPlanner.Unavailable("toggle task", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domainPlanner.Unavailable("toggle task", err)
	}
	return task, nil
}

// DeleteTask 单条条件 DELETE
func (s *SQLStore) DeleteTask(ctx context.Context, listID, taskID string) error {
	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`DELETE FROM tasks WHERE id = ? AND list_id = ?`),
		taskID, listID,
	)
	if err != nil {
		return domainPlanner.Unavailable("delete task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domainPlanner.Unavailable("delete task", err)
	}
	if affected == 0 {
		return domainPlanner.ErrTaskNotFound
	}
	return nil
}

// Close 关闭数据库连接
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// queryLists 查询全部清单
func (s *SQLStore) queryLists(ctx context.Context) ([]*domainPlanner.List, error) {
	rows, err := s.db.QueryContext(ctx, selectLists)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := make([]*domainPlanner.List, 0)
	for rows.Next() {
		var (
			list      domainPlanner.List
			createdAt int64
		)
		if err := rows.Scan(&list.ID, &list.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		list.CreatedAt = time.UnixMilli(createdAt)
		list.Tasks = []*domainPlanner.Task{}
		lists = append(lists, &list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}

// queryTasks 查询任务
func (s *SQLStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domainPlanner.Task, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domainPlanner.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// listExists 检查清单是否存在
func (s *SQLStore) listExists(ctx context.Context, listID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT 1 FROM lists WHERE id = ?`), listID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// rowScanner 兼容 *sql.Row 与 *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask 扫描一行任务
func scanTask(row rowScanner) (*domainPlanner.Task, error) {
	var (
		task      domainPlanner.Task
		dueDate   sql.NullString
		dueTime   sql.NullString
		createdAt int64
	)
	if err := row.Scan(
		&task.ID,
		&task.ListID,
		&task.Text,
		&task.Done,
		&dueDate,
		&dueTime,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	if dueTime.Valid && task.DueDate != nil {
		task.DueTime = &dueTime.String
	}
	task.CreatedAt = time.UnixMilli(createdAt)
	return &task, nil
}

// nullString 可选字符串转换为 SQL 参数
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// 编译时检查接口实现
var _ domainPlanner.Store = (*SQLStore)(nil)

package storage

import (
	"strconv"
	"strings"

	"github.com/focusplanner/backend/internal/infrastructure/config"
)

// dialect 关系型数据库方言差异
type dialect struct {
	name string
	// numbered 占位符是否为 $1, $2 形式（postgres）
	numbered bool
	// schema 建表语句，逐条执行（mysql 驱动默认不支持多语句）
	schema []string
	// insertTask 条件插入任务：仅当清单存在时插入
	// 参数顺序：id, list_id, content, done, due_date, due_time, created_at, list_id
	insertTask string
}

var sqliteDialect = dialect{
	name: config.DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS lists (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			done INTEGER NOT NULL DEFAULT 0,
			due_date TEXT,
			due_time TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_created_at ON lists(created_at, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at, seq)`,
	},
	insertTask: `
		INSERT INTO tasks (id, list_id, content, done, due_date, due_time, created_at)
		SELECT ?, ?, ?, ?, ?, ?, ? FROM lists WHERE id = ?`,
}

var postgresDialect = dialect{
	name:     config.DriverPostgres,
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS lists (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			list_id TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			due_date TEXT,
			due_time TEXT,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_created_at ON lists(created_at, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at, seq)`,
	},
	// SELECT 列表中的参数需要显式类型，否则会被推断为 text
	insertTask: `
		INSERT INTO tasks (id, list_id, content, done, due_date, due_time, created_at)
		SELECT ?::text, ?::text, ?::text, ?::boolean, ?::text, ?::text, ?::bigint FROM lists WHERE id = ?`,
}

var mysqlDialect = dialect{
	name: config.DriverMySQL,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS lists (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_lists_created_at (created_at, seq)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS tasks (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			list_id VARCHAR(64) NOT NULL,
			content TEXT NOT NULL,
			done BOOLEAN NOT NULL DEFAULT FALSE,
			due_date VARCHAR(10) NULL,
			due_time VARCHAR(5) NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_tasks_list_id (list_id),
			INDEX idx_tasks_created_at (created_at, seq),
			CONSTRAINT fk_tasks_list FOREIGN KEY (list_id) REFERENCES lists(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	},
	insertTask: `
		INSERT INTO tasks (id, list_id, content, done, due_date, due_time, created_at)
		SELECT ?, ?, ?, ?, ?, ?, ? FROM lists WHERE id = ?`,
}

// dialectFor 根据驱动名获取方言
func dialectFor(driver string) (dialect, bool) {
	switch driver {
	case config.DriverSQLite:
		return sqliteDialect, true
	case config.DriverPostgres:
		return postgresDialect, true
	case config.DriverMySQL:
		return mysqlDialect, true
	default:
		return dialect{}, false
	}
}

// rebind 将 ? 占位符转换为方言要求的形式
// 语句中不包含字符串字面量里的问号
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

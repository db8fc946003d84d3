package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvConfigFile     = "PLANNER_CONFIG"
	EnvHTTPPort       = "PLANNER_HTTP_PORT"
	EnvAllowedOrigins = "PLANNER_ALLOWED_ORIGINS"
	EnvStaticDir      = "PLANNER_STATIC_DIR"
	EnvStore          = "PLANNER_STORE"
	EnvDBDriver       = "PLANNER_DB_DRIVER"
	EnvDBDSN          = "PLANNER_DB_DSN"
	EnvDBPath         = "PLANNER_DB_PATH"
	EnvFilePath       = "PLANNER_FILE_PATH"
	EnvCouchURL       = "COUCH_URL"
	EnvCouchUser      = "COUCH_USER"
	EnvCouchPassword  = "COUCH_PASSWORD"
	EnvCouchDB        = "COUCH_DB"
)

// 存储后端
const (
	BackendRelational = "relational"
	BackendFile       = "file"
	BackendDocument   = "document"
)

// 关系型数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// 本地开发默认值，生产环境必须覆盖
const (
	DefaultCouchURL      = "http://localhost:5984"
	DefaultCouchUser     = "admin"
	DefaultCouchPassword = "admin"
	DefaultCouchDB       = "focusplanner"
)

// Config 应用配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort       string   `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// StaticDir 前端静态文件目录，留空表示不托管
	StaticDir string `yaml:"static_dir"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	// Backend 存储后端：relational, file, document
	Backend  string         `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	File     FileConfig     `yaml:"file"`
	CouchDB  CouchDBConfig  `yaml:"couchdb"`
}

// DatabaseConfig 关系型数据库配置
type DatabaseConfig struct {
	// Driver 驱动：sqlite, postgres, mysql
	Driver string `yaml:"driver"`
	// DSN postgres/mysql 连接串
	DSN string `yaml:"dsn"`
	// Path sqlite 文件路径，留空使用数据目录下的 focusplanner.db
	Path string `yaml:"path"`
}

// FileConfig 文件快照配置
type FileConfig struct {
	// Path 快照文件路径，留空使用数据目录下的 planner.json
	Path string `yaml:"path"`
}

// CouchDBConfig 文档存储配置
type CouchDBConfig struct {
	URL      string        `yaml:"url"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// Load 加载配置：默认值 → YAML 文件（PLANNER_CONFIG）→ 环境变量
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfig 本地开发默认配置
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       ":3000",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend: BackendRelational,
			Database: DatabaseConfig{
				Driver: DriverSQLite,
			},
			CouchDB: CouchDBConfig{
				URL:      DefaultCouchURL,
				User:     DefaultCouchUser,
				Password: DefaultCouchPassword,
				Database: DefaultCouchDB,
				Timeout:  10 * time.Second,
			},
		},
	}
}

// loadFile 从 YAML 文件加载，文件中未出现的字段保持原值
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() {
	setFromEnv(&c.Server.HTTPPort, EnvHTTPPort)
	setFromEnv(&c.Server.StaticDir, EnvStaticDir)
	if origins := os.Getenv(EnvAllowedOrigins); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	setFromEnv(&c.Storage.Backend, EnvStore)
	setFromEnv(&c.Storage.Database.Driver, EnvDBDriver)
	setFromEnv(&c.Storage.Database.DSN, EnvDBDSN)
	setFromEnv(&c.Storage.Database.Path, EnvDBPath)
	setFromEnv(&c.Storage.File.Path, EnvFilePath)
	setFromEnv(&c.Storage.CouchDB.URL, EnvCouchURL)
	setFromEnv(&c.Storage.CouchDB.User, EnvCouchUser)
	setFromEnv(&c.Storage.CouchDB.Password, EnvCouchPassword)
	setFromEnv(&c.Storage.CouchDB.Database, EnvCouchDB)

	if c.Server.HTTPPort != "" && !strings.Contains(c.Server.HTTPPort, ":") {
		c.Server.HTTPPort = ":" + c.Server.HTTPPort
	}
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendRelational:
		switch c.Storage.Database.Driver {
		case DriverSQLite:
		case DriverPostgres, DriverMySQL:
			if c.Storage.Database.DSN == "" {
				return fmt.Errorf("storage.database.dsn is required for driver %q", c.Storage.Database.Driver)
			}
		default:
			return fmt.Errorf("unknown database driver %q", c.Storage.Database.Driver)
		}
	case BackendFile:
	case BackendDocument:
		if c.Storage.CouchDB.URL == "" || c.Storage.CouchDB.Database == "" {
			return fmt.Errorf("storage.couchdb.url and storage.couchdb.database are required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// SQLitePath sqlite 数据库文件路径
func (c *DatabaseConfig) SQLitePath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(GetDataDir(), "focusplanner.db")
}

// SnapshotPath 文件快照路径
func (c *FileConfig) SnapshotPath() string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(GetDataDir(), "planner.json")
}

// UsesDefaultCredentials 是否仍在使用内置的开发凭据
func (c *CouchDBConfig) UsesDefaultCredentials() bool {
	return c.User == DefaultCouchUser && c.Password == DefaultCouchPassword
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStorageConfig 创建存储配置
func NewStorageConfig(cfg *Config) *StorageConfig {
	return &cfg.Storage
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

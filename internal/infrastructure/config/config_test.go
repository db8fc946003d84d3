package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 清空所有相关环境变量
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile, EnvHTTPPort, EnvAllowedOrigins, EnvStaticDir, EnvStore,
		EnvDBDriver, EnvDBDSN, EnvDBPath, EnvFilePath,
		EnvCouchURL, EnvCouchUser, EnvCouchPassword, EnvCouchDB,
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()
	assert.Equal(t, ":3000", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, BackendRelational, cfg.Storage.Backend)
	assert.Equal(t, DriverSQLite, cfg.Storage.Database.Driver)
	assert.Equal(t, DefaultCouchDB, cfg.Storage.CouchDB.Database)
	assert.True(t, cfg.Storage.CouchDB.UsesDefaultCredentials())
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHTTPPort, "8080")
	t.Setenv(EnvStore, BackendDocument)
	t.Setenv(EnvCouchURL, "http://couch:5984")
	t.Setenv(EnvCouchUser, "planner")
	t.Setenv(EnvCouchPassword, "s3cret")
	t.Setenv(EnvAllowedOrigins, "http://a.test, http://b.test")

	cfg := NewConfig()
	assert.Equal(t, ":8080", cfg.Server.HTTPPort, "纯端口号应补全冒号")
	assert.Equal(t, BackendDocument, cfg.Storage.Backend)
	assert.Equal(t, "http://couch:5984", cfg.Storage.CouchDB.URL)
	assert.False(t, cfg.Storage.CouchDB.UsesDefaultCredentials())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := `
server:
  http_port: ":4000"
storage:
  backend: file
  file:
    path: /var/lib/planner/state.json
  couchdb:
    timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvHTTPPort, ":5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.HTTPPort, "环境变量优先于配置文件")
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/planner/state.json", cfg.Storage.File.SnapshotPath())
	assert.Equal(t, 3*time.Second, cfg.Storage.CouchDB.Timeout)
	assert.Equal(t, DefaultCouchURL, cfg.Storage.CouchDB.URL, "文件中未出现的字段保持默认值")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"sqlite ok", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
		{"unknown driver", func(c *Config) { c.Storage.Database.Driver = "oracle" }, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Database.Driver = DriverPostgres }, true},
		{"mysql with dsn", func(c *Config) {
			c.Storage.Database.Driver = DriverMySQL
			c.Storage.Database.DSN = "root:pw@tcp(127.0.0.1:3306)/planner"
		}, false},
		{"document without url", func(c *Config) {
			c.Storage.Backend = BackendDocument
			c.Storage.CouchDB.URL = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestDefaultPaths_UseDataDir(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)
	t.Setenv(EnvDataDir, "/custom/data")

	assert.Equal(t, filepath.Join("/custom/data", "focusplanner.db"), (&DatabaseConfig{}).SQLitePath())
	assert.Equal(t, filepath.Join("/custom/data", "planner.json"), (&FileConfig{}).SnapshotPath())
	assert.Equal(t, "/explicit.db", (&DatabaseConfig{Path: "/explicit.db"}).SQLitePath())
}

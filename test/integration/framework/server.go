//go:build integration
// +build integration

// TestServer 管理独立 focusplanner-server 进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/focusplanner/backend/client"
)

// TestServer 测试服务进程
type TestServer struct {
	Name     string // 角色名称
	HTTPPort int    // HTTP 端口
	DataDir  string // 数据目录（隔离）
	Store    string // 存储后端

	env     []string
	cmd     *exec.Cmd
	baseURL string
}

// ServerOption 服务进程配置选项
type ServerOption func(*TestServer)

// WithStore 指定存储后端（relational, file, document）
func WithStore(backend string) ServerOption {
	return func(s *TestServer) {
		s.Store = backend
	}
}

// WithDataDir 复用已有数据目录（用于重启场景）
func WithDataDir(dir string) ServerOption {
	return func(s *TestServer) {
		s.DataDir = dir
	}
}

// WithPort 复用已有端口（用于重启或抢占场景）
func WithPort(port int) ServerOption {
	return func(s *TestServer) {
		s.HTTPPort = port
	}
}

// WithEnv 追加环境变量，格式 KEY=VALUE
func WithEnv(kv ...string) ServerOption {
	return func(s *TestServer) {
		s.env = append(s.env, kv...)
	}
}

// NewTestServer 创建测试服务进程
func NewTestServer(binaryPath, name string, opts ...ServerOption) (*TestServer, error) {
	s := &TestServer{
		Name:  name,
		Store: "file",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.HTTPPort == 0 {
		port, err := getFreePort()
		if err != nil {
			return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
		}
		s.HTTPPort = port
	}
	if s.DataDir == "" {
		dataDir, err := os.MkdirTemp("", fmt.Sprintf("focusplanner-test-%s-", name))
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s.DataDir = dataDir
	}
	s.baseURL = fmt.Sprintf("http://localhost:%d", s.HTTPPort)

	s.cmd = exec.Command(binaryPath)
	s.cmd.Env = append(os.Environ(),
		fmt.Sprintf("PLANNER_DATA_DIR=%s", s.DataDir),
		fmt.Sprintf("PLANNER_HTTP_PORT=:%d", s.HTTPPort),
		fmt.Sprintf("PLANNER_STORE=%s", s.Store),
		"GIN_MODE=test",
	)
	s.cmd.Env = append(s.cmd.Env, s.env...)
	s.cmd.Stdout = os.Stdout
	s.cmd.Stderr = os.Stderr

	return s, nil
}

// Start 启动服务并等待就绪
func (s *TestServer) Start() error {
	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server %s: %w", s.Name, err)
	}
	return s.waitForReady(30 * time.Second)
}

// Run 启动服务并等待进程退出，返回退出码
func (s *TestServer) Run(timeout time.Duration) (int, error) {
	if err := s.cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start server %s: %w", s.Name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	select {
	case <-done:
		return s.cmd.ProcessState.ExitCode(), nil
	case <-time.After(timeout):
		_ = s.cmd.Process.Kill()
		<-done
		return -1, fmt.Errorf("server %s did not exit within %v", s.Name, timeout)
	}
}

// Stop 停止服务并清理数据目录
func (s *TestServer) Stop() error {
	return s.StopWithCleanup(true)
}

// StopWithCleanup 停止服务，可选择是否清理数据目录
func (s *TestServer) StopWithCleanup(cleanup bool) error {
	if s.cmd.Process != nil && s.cmd.ProcessState == nil {
		_ = s.cmd.Process.Signal(os.Interrupt)

		done := make(chan error, 1)
		go func() {
			done <- s.cmd.Wait()
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = s.cmd.Process.Kill()
			<-done
		}
	}

	if cleanup {
		return os.RemoveAll(s.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (s *TestServer) BaseURL() string {
	return s.baseURL
}

// Client 返回指向该服务的 API 客户端
func (s *TestServer) Client() *client.Client {
	return client.New(s.baseURL)
}

// waitForReady 等待 health 端点就绪
func (s *TestServer) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	httpClient := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := httpClient.Get(s.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("server %s failed to become ready within %v", s.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

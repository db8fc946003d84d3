package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appPlanner "github.com/focusplanner/backend/internal/application/planner"
	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/focusplanner/backend/internal/infrastructure/notification"
	"github.com/focusplanner/backend/internal/infrastructure/storage"
	"github.com/focusplanner/backend/internal/infrastructure/websocket"
	"github.com/focusplanner/backend/internal/interfaces/http/handler"
	"github.com/focusplanner/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T, staticDir string) (*httptest.Server, *websocket.Hub) {
	t.Helper()

	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "planner.json"))
	require.NoError(t, err)

	hub := websocket.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	service := appPlanner.NewService(store, notification.NewWebSocketPusher(hub))
	srv := NewServer(
		&config.ServerConfig{
			HTTPPort:       ":0",
			AllowedOrigins: []string{"http://localhost:5173"},
			StaticDir:      staticDir,
		},
		handler.NewPlannerHandler(service),
		handler.NewEventsHandler(hub),
		mcp.NewServer(service),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, hub
}

func TestServer_Health(t *testing.T) {
	ts, _ := setupServer(t, "")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_CORSPreflight(t *testing.T) {
	ts, _ := setupServer(t, "")

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/lists", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	// 未允许的来源不返回 CORS 头
	req.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_UnknownAPIRoute(t *testing.T) {
	ts, _ := setupServer(t, t.TempDir())

	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "route not found", body["message"])
}

func TestServer_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644))
	ts, _ := setupServer(t, dir)

	tests := []struct {
		path string
		want string
	}{
		{"/app.js", "console.log(1)"},
		{"/", "<html>app</html>"},
		{"/lists/123", "<html>app</html>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			buf := new(strings.Builder)
			_, err = io.Copy(buf, resp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestServer_EventsStream(t *testing.T) {
	ts, hub := setupServer(t, "")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// 等待订阅生效后再触发变更
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 5*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/lists", "application/json", strings.NewReader(`{"name":"Work"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event appPlanner.ChangeEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, appPlanner.EventListCreated, event.Type)
	assert.NotEmpty(t, event.ListID)
}

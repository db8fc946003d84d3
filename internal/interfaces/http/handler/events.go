package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/focusplanner/backend/internal/infrastructure/log"
	wshub "github.com/focusplanner/backend/internal/infrastructure/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// eventsPingInterval 服务端 Ping 间隔
	eventsPingInterval = 30 * time.Second
	// eventsPongWait 超过该时间未收到任何帧则断开
	eventsPongWait  = 60 * time.Second
	eventsWriteWait = 10 * time.Second
)

// EventsHandler 变更事件流处理器
type EventsHandler struct {
	hub      *wshub.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler 创建变更事件流处理器
func NewEventsHandler(hub *wshub.Hub) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: log.NewModuleLogger("http", "events"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 跨域由 CORS 中间件统一控制
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream 将连接升级为 WebSocket 并推送变更事件
// @Summary 订阅变更事件（WebSocket）
// @Tags 事件
// @Success 101
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection",
			"error", err,
		)
		return
	}

	sub := wshub.NewConnection()
	h.hub.Register(sub)

	go h.writePump(conn, sub)
	h.readPump(conn)

	h.hub.Unregister(sub)
	conn.Close()
}

// readPump 丢弃客户端消息，只用于感知断开与续期超时
func (h *EventsHandler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Event stream closed",
					"error", err,
				)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	}
}

// writePump 将 Hub 推送的消息写入连接
func (h *EventsHandler) writePump(conn *websocket.Conn, sub *wshub.Connection) {
	ticker := time.NewTicker(eventsPingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

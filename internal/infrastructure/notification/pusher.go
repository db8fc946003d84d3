package notification

import (
	"github.com/focusplanner/backend/internal/application/planner"
	"github.com/focusplanner/backend/internal/infrastructure/websocket"
)

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// PushChange 向所有订阅者推送变更事件
func (p *WebSocketPusher) PushChange(event *planner.ChangeEvent) error {
	return p.hub.Broadcast(event)
}

// 编译时检查接口实现
var _ planner.Pusher = (*WebSocketPusher)(nil)

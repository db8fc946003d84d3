package notification

import (
	"github.com/focusplanner/backend/internal/application/planner"
	"github.com/google/wire"
)

// ProviderSet 通知基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewWebSocketPusher,
	// 接口绑定：application.Pusher -> infrastructure.WebSocketPusher
	wire.Bind(
		new(planner.Pusher),
		new(*WebSocketPusher),
	),
)

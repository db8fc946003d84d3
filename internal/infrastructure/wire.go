package infrastructure

import (
	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/focusplanner/backend/internal/infrastructure/notification"
	"github.com/focusplanner/backend/internal/infrastructure/storage"
	"github.com/focusplanner/backend/internal/infrastructure/websocket"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	storage.ProviderSet,
)

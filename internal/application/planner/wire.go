package planner

import (
	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/google/wire"
)

// ProviderSet 清单应用服务 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideService,
)

// ProvideService 供 wire 使用的构造函数（不带可选项）
func ProvideService(store domainPlanner.Store, pusher Pusher) *Service {
	return NewService(store, pusher)
}

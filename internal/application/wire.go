package application

import (
	"github.com/focusplanner/backend/internal/application/planner"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	planner.ProviderSet,
)

package planner

// Pusher 变更推送接口（定义在 application 层）
type Pusher interface {
	PushChange(event *ChangeEvent) error
}

// noopPusher 未配置推送时使用
type noopPusher struct{}

func (noopPusher) PushChange(*ChangeEvent) error { return nil }

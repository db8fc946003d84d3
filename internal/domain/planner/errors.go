package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 参数非法（客户端错误）
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound 清单或任务不存在
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable 存储后端故障（服务端错误）
	ErrStoreUnavailable = errors.New("store unavailable")
)

var (
	// ErrNameRequired 清单名称为空
	ErrNameRequired = fmt.Errorf("%w: name is required", ErrInvalidArgument)
	// ErrTextRequired 任务内容为空
	ErrTextRequired = fmt.Errorf("%w: text is required", ErrInvalidArgument)
	// ErrInvalidDueDate 截止日期格式错误
	ErrInvalidDueDate = fmt.Errorf("%w: dueDate must be YYYY-MM-DD", ErrInvalidArgument)
	// ErrInvalidDueTime 截止时间格式错误
	ErrInvalidDueTime = fmt.Errorf("%w: dueTime must be HH:MM", ErrInvalidArgument)
	// ErrListNotFound 清单不存在
	ErrListNotFound = fmt.Errorf("%w: list", ErrNotFound)
	// ErrTaskNotFound 任务不存在（或不属于该清单）
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// Unavailable 将后端错误包装为 ErrStoreUnavailable
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

package planner

import (
	"strings"
	"time"
)

const (
	// DueDateLayout 截止日期格式
	DueDateLayout = "2006-01-02"
	// DueTimeLayout 截止时间格式（24 小时制）
	DueTimeLayout = "15:04"
)

// NormalizeDue 规范化截止日期和时间
// 空字符串视为未设置；没有日期时时间一律置空
func NormalizeDue(dueDate, dueTime *string) (*string, *string, error) {
	date := trimmedOrNil(dueDate)
	clock := trimmedOrNil(dueTime)

	if date == nil {
		return nil, nil, nil
	}
	if _, err := time.Parse(DueDateLayout, *date); err != nil {
		return nil, nil, ErrInvalidDueDate
	}
	if clock != nil {
		if _, err := time.Parse(DueTimeLayout, *clock); err != nil {
			return nil, nil, ErrInvalidDueTime
		}
	}
	return date, clock, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

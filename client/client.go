// Package client 清单与任务 REST API 的 Go 客户端
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 10 * time.Second

// List 清单
type List struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Tasks []*Task `json:"tasks"`
}

// Task 任务；在清单内返回时 ListID 为空
type Task struct {
	ID      string  `json:"id"`
	ListID  string  `json:"listId,omitempty"`
	Text    string  `json:"text"`
	Done    bool    `json:"done"`
	DueDate *string `json:"dueDate"`
	DueTime *string `json:"dueTime"`
}

// APIError 服务端返回的错误
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// NotFound 是否为 404
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type listsResponse struct {
	Lists []*List `json:"lists"`
}

type createListRequest struct {
	Name string `json:"name"`
}

type createTaskRequest struct {
	Text    string  `json:"text"`
	DueDate *string `json:"dueDate"`
	DueTime *string `json:"dueTime"`
}

// Client API 客户端
type Client struct {
	http *resty.Client
}

// Option 客户端选项
type Option func(*resty.Client)

// WithTimeout 设置请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// New 创建客户端，baseURL 形如 http://localhost:3000
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api").
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// GetData 获取全部清单及任务
func (c *Client) GetData(ctx context.Context) ([]*List, error) {
	var result listsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&APIError{}).
		Get("/lists")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	if result.Lists == nil {
		result.Lists = []*List{}
	}
	return result.Lists, nil
}

// AddList 创建清单；名称去除空白后为空时不发请求，返回 nil
func (c *Client) AddList(ctx context.Context, name string) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var list List
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createListRequest{Name: name}).
		SetResult(&list).
		SetError(&APIError{}).
		Post("/lists")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &list, nil
}

// RemoveList 删除清单及其任务
func (c *Client) RemoveList(ctx context.Context, listID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("listId", listID).
		SetError(&APIError{}).
		Delete("/lists/{listId}")
	return checkResponse(resp, err)
}

// AddTask 创建任务；内容去除空白后为空时不发请求，返回 nil
// dueDate/dueTime 为空字符串表示不设置
func (c *Client) AddTask(ctx context.Context, listID, text, dueDate, dueTime string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var task Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("listId", listID).
		SetBody(createTaskRequest{
			Text:    text,
			DueDate: optional(dueDate),
			DueTime: optional(dueTime),
		}).
		SetResult(&task).
		SetError(&APIError{}).
		Post("/lists/{listId}/tasks")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask 翻转任务完成状态
func (c *Client) ToggleTask(ctx context.Context, listID, taskID string) (*Task, error) {
	var task Task
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"listId": listID, "taskId": taskID}).
		SetResult(&task).
		SetError(&APIError{}).
		Post("/lists/{listId}/tasks/{taskId}/toggle")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &task, nil
}

// RemoveTask 删除任务
func (c *Client) RemoveTask(ctx context.Context, listID, taskID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"listId": listID, "taskId": taskID}).
		SetError(&APIError{}).
		Delete("/lists/{listId}/tasks/{taskId}")
	return checkResponse(resp, err)
}

// checkResponse resty 的 SetResult 仅在 2xx 时解析，SetError 在 4xx/5xx 时解析
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.StatusCode = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

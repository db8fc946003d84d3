package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
)

const (
	docTypeList = "list"
	docTypeTask = "task"

	// findPageSize 每页 _find 返回的文档数
	findPageSize = 200
)

// errConflict 文档修订冲突（409）
var errConflict = errors.New("document update conflict")

// couchDoc CouchDB 文档（清单与任务共用）
type couchDoc struct {
	ID        string  `json:"_id"`
	Rev       string  `json:"_rev,omitempty"`
	Type      string  `json:"type"`
	Name      string  `json:"name,omitempty"`
	ListID    string  `json:"listId,omitempty"`
	Text      string  `json:"text,omitempty"`
	Done      bool    `json:"done"`
	DueDate   *string `json:"dueDate"`
	DueTime   *string `json:"dueTime"`
	CreatedAt string  `json:"createdAt"`
}

// tombstone 批量删除用的墓碑文档
type tombstone struct {
	ID      string `json:"_id"`
	Rev     string `json:"_rev"`
	Deleted bool   `json:"_deleted"`
}

// couchError CouchDB 错误响应
type couchError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type putResult struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

type bulkResult struct {
	ID     string `json:"id"`
	Rev    string `json:"rev"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type findRequest struct {
	Selector map[string]any `json:"selector"`
	Limit    int            `json:"limit"`
	Bookmark string         `json:"bookmark,omitempty"`
}

type findResponse struct {
	Docs     []couchDoc `json:"docs"`
	Bookmark string     `json:"bookmark"`
}

// couchClient CouchDB HTTP 客户端
type couchClient struct {
	http *resty.Client
	db   string
}

// newCouchClient 创建 CouchDB 客户端
func newCouchClient(cfg *config.CouchDBConfig) *couchClient {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetBasicAuth(cfg.User, cfg.Password).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &couchClient{http: client, db: cfg.Database}
}

// ensureDB 创建数据库，已存在（412）视为成功
func (c *couchClient) ensureDB(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("db", c.db).
		SetError(&couchError{}).
		Put("/{db}")
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusAccepted, http.StatusPreconditionFailed:
		return nil
	}
	return responseError("create database", resp)
}

// get 读取文档，不存在时 found 为 false
func (c *couchClient) get(ctx context.Context, id string) (*couchDoc, bool, error) {
	var doc couchDoc
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"db": c.db, "id": id}).
		SetResult(&doc).
		SetError(&couchError{}).
		Get("/{db}/{id}")
	if err != nil {
		return nil, false, fmt.Errorf("failed to get document: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.IsError() {
		return nil, false, responseError("get document", resp)
	}
	return &doc, true, nil
}

// put 创建或更新文档，修订冲突返回 errConflict
func (c *couchClient) put(ctx context.Context, doc *couchDoc) (string, error) {
	var result putResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"db": c.db, "id": doc.ID}).
		SetBody(doc).
		SetResult(&result).
		SetError(&couchError{}).
		Put("/{db}/{id}")
	if err != nil {
		return "", fmt.Errorf("failed to put document: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return "", errConflict
	}
	if resp.IsError() {
		return "", responseError("put document", resp)
	}
	return result.Rev, nil
}

// remove 按修订删除文档
func (c *couchClient) remove(ctx context.Context, id, rev string) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"db": c.db, "id": id}).
		SetQueryParam("rev", rev).
		SetError(&couchError{}).
		Delete("/{db}/{id}")
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return false, nil
	case http.StatusConflict:
		return false, errConflict
	}
	if resp.IsError() {
		return false, responseError("delete document", resp)
	}
	return true, nil
}

// find 执行 Mango 查询，按 bookmark 翻页直到取完
func (c *couchClient) find(ctx context.Context, selector map[string]any) ([]couchDoc, error) {
	var (
		docs     []couchDoc
		bookmark string
	)
	for {
		var page findResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("db", c.db).
			SetBody(findRequest{Selector: selector, Limit: findPageSize, Bookmark: bookmark}).
			SetResult(&page).
			SetError(&couchError{}).
			Post("/{db}/_find")
		if err != nil {
			return nil, fmt.Errorf("failed to query documents: %w", err)
		}
		if resp.IsError() {
			return nil, responseError("query documents", resp)
		}

		docs = append(docs, page.Docs...)
		if len(page.Docs) < findPageSize || page.Bookmark == "" || page.Bookmark == bookmark {
			return docs, nil
		}
		bookmark = page.Bookmark
	}
}

// bulkDelete 通过 _bulk_docs 一次提交多个墓碑文档
func (c *couchClient) bulkDelete(ctx context.Context, docs []tombstone) ([]bulkResult, error) {
	var results []bulkResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("db", c.db).
		SetBody(map[string]any{"docs": docs}).
		SetResult(&results).
		SetError(&couchError{}).
		Post("/{db}/_bulk_docs")
	if err != nil {
		return nil, fmt.Errorf("failed to bulk delete documents: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("bulk delete documents", resp)
	}
	return results, nil
}

// responseError 将 CouchDB 错误响应转换为 error
func responseError(op string, resp *resty.Response) error {
	if e, ok := resp.Error().(*couchError); ok && e.Error != "" {
		return fmt.Errorf("failed to %s: status %d: %s: %s", op, resp.StatusCode(), e.Error, e.Reason)
	}
	return fmt.Errorf("failed to %s: status %d", op, resp.StatusCode())
}

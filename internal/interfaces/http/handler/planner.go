package handler

import (
	"errors"
	"log/slog"
	"net/http"

	appPlanner "github.com/focusplanner/backend/internal/application/planner"
	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/log"
	"github.com/focusplanner/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// PlannerHandler 清单与任务处理器
type PlannerHandler struct {
	service *appPlanner.Service
	logger  *slog.Logger
}

// NewPlannerHandler 创建清单与任务处理器
func NewPlannerHandler(service *appPlanner.Service) *PlannerHandler {
	return &PlannerHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "planner"),
	}
}

// ListAll 获取全部清单及任务
// @Summary 获取全部清单及任务
// @Tags 清单
// @Produce json
// @Success 200 {object} appPlanner.ListsDTO
// @Failure 500 {object} response.ErrorResponse
// @Router /lists [get]
func (h *PlannerHandler) ListAll(c *gin.Context) {
	lists, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, "list all", err)
		return
	}
	response.Success(c, lists)
}

// CreateList 创建清单
// @Summary 创建清单
// @Tags 清单
// @Accept json
// @Produce json
// @Param body body appPlanner.CreateListDTO true "清单名称"
// @Success 201 {object} appPlanner.ListDTO
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lists [post]
func (h *PlannerHandler) CreateList(c *gin.Context) {
	var req appPlanner.CreateListDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidArgument, "invalid request body")
		return
	}

	list, err := h.service.CreateList(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "create list", err)
		return
	}
	response.Created(c, list)
}

// DeleteList 删除清单（连同其任务）
// @Summary 删除清单
// @Tags 清单
// @Param listId path string true "清单 ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lists/{listId} [delete]
func (h *PlannerHandler) DeleteList(c *gin.Context) {
	ctx := log.WithListID(c.Request.Context(), c.Param("listId"))
	if err := h.service.DeleteList(ctx, c.Param("listId")); err != nil {
		h.handleError(c, "delete list", err)
		return
	}
	response.NoContent(c)
}

// CreateTask 在清单中创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Param listId path string true "清单 ID"
// @Param body body appPlanner.CreateTaskDTO true "任务内容与截止时间"
// @Success 201 {object} appPlanner.TaskDTO
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lists/{listId}/tasks [post]
func (h *PlannerHandler) CreateTask(c *gin.Context) {
	var req appPlanner.CreateTaskDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidArgument, "invalid request body")
		return
	}

	ctx := log.WithListID(c.Request.Context(), c.Param("listId"))
	task, err := h.service.CreateTask(ctx, c.Param("listId"), &req)
	if err != nil {
		h.handleError(c, "create task", err)
		return
	}
	response.Created(c, task)
}

// ToggleTask 翻转任务完成状态
// @Summary 切换任务完成状态
// @Tags 任务
// @Produce json
// @Param listId path string true "清单 ID"
// @Param taskId path string true "任务 ID"
// @Success 200 {object} appPlanner.TaskDTO
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lists/{listId}/tasks/{taskId}/toggle [post]
func (h *PlannerHandler) ToggleTask(c *gin.Context) {
	ctx := log.WithTaskID(log.WithListID(c.Request.Context(), c.Param("listId")), c.Param("taskId"))
	task, err := h.service.ToggleTask(ctx, c.Param("listId"), c.Param("taskId"))
	if err != nil {
		h.handleError(c, "toggle task", err)
		return
	}
	response.Success(c, task)
}

// DeleteTask 删除任务
// @Summary 删除任务
// @Tags 任务
// @Param listId path string true "清单 ID"
// @Param taskId path string true "任务 ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /lists/{listId}/tasks/{taskId} [delete]
func (h *PlannerHandler) DeleteTask(c *gin.Context) {
	ctx := log.WithTaskID(log.WithListID(c.Request.Context(), c.Param("listId")), c.Param("taskId"))
	if err := h.service.DeleteTask(ctx, c.Param("listId"), c.Param("taskId")); err != nil {
		h.handleError(c, "delete task", err)
		return
	}
	response.NoContent(c)
}

// handleError 将领域错误映射为 HTTP 状态码
// 服务端错误只记录日志，不向客户端暴露内部信息
func (h *PlannerHandler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domainPlanner.ErrInvalidArgument):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidArgument, err.Error())
	case errors.Is(err, domainPlanner.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		log.FromContext(c.Request.Context(), h.logger).Error("Request failed",
			"op", op,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal server error")
	}
}

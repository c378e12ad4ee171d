package handlers

import (
	"net/http"
	"strconv"

	"github.com/easayliu/video-idle-queue/internal/application/container"
	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/application/services/task"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/gin-gonic/gin"
)

// QueueHandler 队列管理接口
type QueueHandler struct {
	queue     *task.QueueService
	scheduler *task.SchedulerService
}

func NewQueueHandler(c *container.ServiceContainer) *QueueHandler {
	return &QueueHandler{
		queue:     c.GetQueueService(),
		scheduler: c.GetSchedulerService(),
	}
}

// GetQueue 获取当前队列
// @Summary 获取队列
// @Description 返回队列任务与调度状态的一致性快照
// @Tags 队列
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/queue [get]
func (h *QueueHandler) GetQueue(c *gin.Context) {
	snapshot := h.queue.Snapshot(h.scheduler.IsRunning(), h.scheduler.IsPaused())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}

// AddTask 添加任务到队列
// @Summary 添加任务
// @Description 浏览器扩展提交视频任务,按URL去重
// @Tags 队列
// @Accept json
// @Produce json
// @Param request body contracts.SubmitTaskRequest true "任务请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/queue/add [post]
func (h *QueueHandler) AddTask(c *gin.Context) {
	var req contracts.SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.Platform == "" {
			c.Error(contracts.ErrMissingField("platform"))
			return
		}
		c.Error(contracts.NewServiceErrorWithCause(contracts.ErrorCodeInvalidRequest,
			"Invalid request body", err))
		return
	}
	req.AddedVia = entities.AddedViaChromeExtension

	resp, err := h.queue.Submit(req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Task added to queue successfully",
		"task_id":      resp.TaskID,
		"queue_length": resp.QueueLength,
	})
}

// ClearQueue 清空队列
// @Summary 清空队列
// @Tags 队列
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/queue/clear [delete]
func (h *QueueHandler) ClearQueue(c *gin.Context) {
	if _, err := h.queue.Clear(); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Queue cleared successfully",
	})
}

// RemoveTask 按序号移除任务
// @Summary 移除任务
// @Tags 队列
// @Produce json
// @Param id path int true "任务序号"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/queue/remove/{id} [delete]
func (h *QueueHandler) RemoveTask(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Error(contracts.ErrIndexOutOfRange(-1))
		return
	}

	removed, err := h.queue.RemoveAt(index)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Task removed successfully",
		"removed_task": removed.Title,
	})
}

// MoveTask 队列内移动任务
// @Summary 移动任务
// @Description 上移或下移指定序号的任务
// @Tags 队列
// @Accept json
// @Produce json
// @Param request body contracts.MoveTaskRequest true "移动请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/queue/move [post]
func (h *QueueHandler) MoveTask(c *gin.Context) {
	var req contracts.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(contracts.NewServiceErrorWithCause(contracts.ErrorCodeInvalidRequest,
			"Invalid request body", err))
		return
	}

	if err := h.queue.Move(req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task moved successfully",
	})
}

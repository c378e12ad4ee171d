package handlers

import (
	"net/http"

	"github.com/easayliu/video-idle-queue/internal/application/container"
	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/application/services/task"
	"github.com/gin-gonic/gin"
)

// SettingsHandler 闲时设置接口
type SettingsHandler struct {
	queue     *task.QueueService
	scheduler *task.SchedulerService
}

func NewSettingsHandler(c *container.ServiceContainer) *SettingsHandler {
	return &SettingsHandler{
		queue:     c.GetQueueService(),
		scheduler: c.GetSchedulerService(),
	}
}

// GetSettings 获取设置
// @Summary 获取设置
// @Description 返回闲时段与调度状态
// @Tags 设置
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	window := h.queue.Window()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"idle_start_time": window.Start(),
			"idle_end_time":   window.End(),
			"is_idle_running": h.scheduler.IsRunning(),
			"idle_paused":     h.scheduler.IsPaused(),
		},
	})
}

// UpdateSettings 更新设置
// @Summary 更新闲时段
// @Description 更新闲时开始/结束时间,缺省字段保持原值
// @Tags 设置
// @Accept json
// @Produce json
// @Param request body contracts.UpdateSettingsRequest true "设置请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req contracts.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(contracts.NewServiceErrorWithCause(contracts.ErrorCodeInvalidRequest,
			"Invalid request body", err))
		return
	}

	if _, err := h.queue.UpdateWindow(req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings updated successfully",
	})
}

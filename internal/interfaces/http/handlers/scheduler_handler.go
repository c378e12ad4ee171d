package handlers

import (
	"net/http"

	"github.com/easayliu/video-idle-queue/internal/application/container"
	"github.com/easayliu/video-idle-queue/internal/application/services/task"
	"github.com/gin-gonic/gin"
)

// SchedulerHandler 调度控制接口
type SchedulerHandler struct {
	scheduler *task.SchedulerService
}

func NewSchedulerHandler(c *container.ServiceContainer) *SchedulerHandler {
	return &SchedulerHandler{scheduler: c.GetSchedulerService()}
}

// PauseScheduler 暂停调度
// @Summary 暂停调度
// @Description 暂停闲时调度,不影响正在执行的任务;重复调用幂等
// @Tags 调度
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/queue/pause [post]
func (h *SchedulerHandler) PauseScheduler(c *gin.Context) {
	h.scheduler.Pause()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scheduler paused",
	})
}

// ResumeScheduler 恢复调度
// @Summary 恢复调度
// @Tags 调度
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/queue/resume [post]
func (h *SchedulerHandler) ResumeScheduler(c *gin.Context) {
	h.scheduler.Resume()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scheduler resumed",
	})
}

// RunNext 立即执行队首任务
// @Summary 立即执行
// @Description 跳过闲时段检查立即执行队首任务
// @Tags 调度
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/queue/run-next [post]
func (h *SchedulerHandler) RunNext(c *gin.Context) {
	if err := h.scheduler.RunNextNow(); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task started",
	})
}

// StopCurrent 取消正在执行的任务
// @Summary 取消当前任务
// @Description 取消正在执行的任务并暂停调度
// @Tags 调度
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/queue/stop [post]
func (h *SchedulerHandler) StopCurrent(c *gin.Context) {
	if err := h.scheduler.StopCurrent(); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Current task cancelled, scheduler paused",
	})
}

package contracts

import (
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
)

// MoveDirection 手动调整队列顺序的方向
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// SubmitTaskRequest 外部提交任务的请求
// 浏览器扩展通过HTTP提交,GUI等进程内调用方也走同一条路径
type SubmitTaskRequest struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url"`
	Title    string `json:"title"`

	// 平台附加信息,原样写入任务参数
	Author   string `json:"author"`
	Text     string `json:"text"`
	Uploader string `json:"uploader"`
	VideoID  string `json:"videoId"`

	// 提交来源,由调用方设置而非请求体
	AddedVia string `json:"-"`
}

// SubmitTaskResponse 提交成功的结果
type SubmitTaskResponse struct {
	TaskID      int    `json:"task_id"` // 任务在队列中的序号
	QueueLength int    `json:"queue_length"`
	Title       string `json:"title"`
}

// QueueSnapshot 队列及调度状态的一致性快照
type QueueSnapshot struct {
	Tasks         []*entities.Task `json:"tasks"`
	IdleStartTime string           `json:"idle_start_time"`
	IdleEndTime   string           `json:"idle_end_time"`
	IsIdleRunning bool             `json:"is_idle_running"`
	IdlePaused    bool             `json:"idle_paused"`
}

// UpdateSettingsRequest 更新闲时时间段
// 两个字段均可选,缺省保持原值
type UpdateSettingsRequest struct {
	IdleStartTime *string `json:"idle_start_time"`
	IdleEndTime   *string `json:"idle_end_time"`
}

// MoveTaskRequest 队列内手动移动任务
type MoveTaskRequest struct {
	Index     int           `json:"index"`
	Direction MoveDirection `json:"direction" binding:"required"`
}

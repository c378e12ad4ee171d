package contracts

import (
	"context"
	"time"
)

// TaskNotification 任务状态通知
type TaskNotification struct {
	TaskID       string
	Title        string
	Platform     string
	Success      bool
	ResultPath   string
	ErrorMessage string
	Remaining    int // 队列中剩余任务数
	Duration     time.Duration
}

// NotificationService 状态通知接口
// 调度器产生的失败只通过通知上报,绝不打断调度循环
type NotificationService interface {
	NotifyTaskStarted(ctx context.Context, n TaskNotification)
	NotifyTaskComplete(ctx context.Context, n TaskNotification)
	NotifyTaskFailed(ctx context.Context, n TaskNotification)
	NotifyStatus(ctx context.Context, message string)
}

package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/telegram"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// Service 任务状态通知服务
// 始终写日志,Telegram启用时同步推送
type Service struct {
	telegramClient *telegram.Client
}

func NewService(cfg *config.TelegramConfig) *Service {
	s := &Service{}
	if cfg.Enabled && cfg.BotToken != "" {
		s.telegramClient = telegram.NewClient(cfg)
	}
	return s
}

func (s *Service) NotifyTaskStarted(ctx context.Context, n contracts.TaskNotification) {
	logger.Info("Task started", "task_id", n.TaskID, "title", n.Title, "platform", n.Platform)
	s.push(fmt.Sprintf("▶️ 开始处理: %s", n.Title))
}

func (s *Service) NotifyTaskComplete(ctx context.Context, n contracts.TaskNotification) {
	logger.Info("Task completed",
		"task_id", n.TaskID,
		"title", n.Title,
		"result", n.ResultPath,
		"duration", n.Duration.String(),
		"remaining", n.Remaining,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ 完成: %s\n耗时: %s", n.Title, n.Duration.Round(time.Second))
	if n.ResultPath != "" {
		fmt.Fprintf(&b, "\n产物: %s", n.ResultPath)
	}
	fmt.Fprintf(&b, "\n队列剩余: %d", n.Remaining)
	s.push(b.String())
}

func (s *Service) NotifyTaskFailed(ctx context.Context, n contracts.TaskNotification) {
	logger.Error("Task failed",
		"task_id", n.TaskID,
		"title", n.Title,
		"error", n.ErrorMessage,
		"remaining", n.Remaining,
	)
	s.push(fmt.Sprintf("❌ 失败: %s\n原因: %s\n队列剩余: %d", n.Title, n.ErrorMessage, n.Remaining))
}

func (s *Service) NotifyStatus(ctx context.Context, message string) {
	logger.Info("Scheduler status", "message", message)
	s.push(message)
}

func (s *Service) push(text string) {
	if s.telegramClient == nil {
		return
	}
	if err := s.telegramClient.Broadcast(text); err != nil {
		logger.Warn("Failed to push telegram notification", "error", err)
	}
}

package executor

import (
	"context"
	"fmt"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// Executor 按任务类型分派到对应处理流水线
type Executor struct {
	downloader  contracts.MediaDownloader
	transcriber contracts.Transcriber
	summarizer  contracts.Summarizer
}

func NewExecutor(
	downloader contracts.MediaDownloader,
	transcriber contracts.Transcriber,
	summarizer contracts.Summarizer,
) *Executor {
	return &Executor{
		downloader:  downloader,
		transcriber: transcriber,
		summarizer:  summarizer,
	}
}

// Execute 执行单个任务
// 不panic也不返回error,一切异常折叠进ExecutionResult
func (e *Executor) Execute(ctx context.Context, task *entities.Task, onProgress contracts.ProgressFunc) (result contracts.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task execution panicked", "task_id", task.ID, "panic", r)
			result = contracts.ExecutionResult{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	if onProgress == nil {
		onProgress = func(string, int) {}
	}

	logger.Info("Executing task", "task_id", task.ID, "type", task.Type, "title", task.Title)

	switch task.Type {
	case entities.TaskTypeYouTube:
		return e.runMediaPipeline(ctx, task.Params.YouTubeURL, task.Params, onProgress)
	case entities.TaskTypeTwitter, entities.TaskTypeBilibili:
		return e.runMediaPipeline(ctx, task.Params.URL, task.Params, onProgress)
	case entities.TaskTypeBatch:
		return e.runBatch(ctx, task.Params, onProgress)
	case entities.TaskTypeLocalAudio:
		return e.runLocalMedia(ctx, task.Params.AudioPath, task.Params, onProgress)
	case entities.TaskTypeLocalVideo:
		return e.runLocalMedia(ctx, task.Params.VideoPath, task.Params, onProgress)
	case entities.TaskTypeLocalVideoBatch:
		return e.runLocalVideoBatch(ctx, task.Params, onProgress)
	case entities.TaskTypeLocalText:
		return e.runLocalText(ctx, task.Params, onProgress)
	default:
		return contracts.ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("unsupported task type: %s", task.Type),
		}
	}
}

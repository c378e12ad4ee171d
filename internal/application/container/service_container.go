package container

import (
	"sync"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/application/services/executor"
	"github.com/easayliu/video-idle-queue/internal/application/services/llm"
	"github.com/easayliu/video-idle-queue/internal/application/services/notification"
	"github.com/easayliu/video-idle-queue/internal/application/services/task"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/downloader"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/repository"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/transcriber"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// ServiceContainer 服务容器 - 实现依赖注入
type ServiceContainer struct {
	config *config.Config

	queueRepo           *repository.QueueRepository
	queueService        *task.QueueService
	schedulerService    *task.SchedulerService
	notificationService contracts.NotificationService
	taskExecutor        contracts.TaskExecutor

	once    sync.Once
	initErr error
}

// NewServiceContainer 创建服务容器
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	return &ServiceContainer{config: cfg}
}

// GetQueueService 获取队列服务实例
func (c *ServiceContainer) GetQueueService() *task.QueueService {
	c.once.Do(c.initServices)
	return c.queueService
}

// GetSchedulerService 获取调度服务实例
func (c *ServiceContainer) GetSchedulerService() *task.SchedulerService {
	c.once.Do(c.initServices)
	return c.schedulerService
}

// GetNotificationService 获取通知服务实例
func (c *ServiceContainer) GetNotificationService() contracts.NotificationService {
	c.once.Do(c.initServices)
	return c.notificationService
}

// Err 初始化过程中的第一个错误
func (c *ServiceContainer) Err() error {
	c.once.Do(c.initServices)
	return c.initErr
}

// initServices 初始化所有服务（单例模式）
func (c *ServiceContainer) initServices() {
	logger.Info("Initializing service container")

	// 1. 基础设施层
	var err error
	c.queueRepo, err = repository.NewQueueRepository(c.config.Queue.FilePath)
	if err != nil {
		logger.Error("Failed to initialize queue repository", "error", err)
		c.initErr = err
		return
	}

	ytdlp := downloader.NewYtdlpDownloader(&c.config.Downloader)
	whisper := transcriber.NewWhisperTranscriber(&c.config.Transcriber)
	summarizer := llm.NewLLMService(&c.config.OpenAI)
	c.notificationService = notification.NewService(&c.config.Telegram)

	// 2. 应用层服务
	c.taskExecutor = executor.NewExecutor(ytdlp, whisper, summarizer)
	c.queueService = task.NewQueueService(c.queueRepo)
	c.schedulerService = task.NewSchedulerService(
		c.queueService,
		c.taskExecutor,
		c.notificationService,
		&c.config.Scheduler,
	)

	logger.Info("Service container initialized successfully")
}

// Shutdown 关闭服务容器
func (c *ServiceContainer) Shutdown() {
	logger.Info("Shutting down service container")

	if c.schedulerService != nil {
		c.schedulerService.Shutdown()
	}

	logger.Info("Service container shutdown completed")
}

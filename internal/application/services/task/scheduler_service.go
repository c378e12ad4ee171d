package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// SchedulerService 闲时调度器
// 周期检查闲时段并串行执行队首任务,同一时刻最多一个任务在执行
type SchedulerService struct {
	queue    *QueueService
	executor contracts.TaskExecutor
	notifier contracts.NotificationService

	cron          *cron.Cron
	tickSpec      string
	followUpDelay time.Duration
	now           func() time.Time

	mu            sync.Mutex
	running       bool
	paused        bool
	currentTaskID string
	cancelCurrent context.CancelFunc
}

func NewSchedulerService(
	queue *QueueService,
	executor contracts.TaskExecutor,
	notifier contracts.NotificationService,
	cfg *config.SchedulerConfig,
) *SchedulerService {
	tickSeconds := cfg.TickSeconds
	if tickSeconds <= 0 {
		tickSeconds = 60
	}
	followUpSeconds := cfg.FollowUpDelaySeconds
	if followUpSeconds <= 0 {
		followUpSeconds = 5
	}

	return &SchedulerService{
		queue:         queue,
		executor:      executor,
		notifier:      notifier,
		tickSpec:      fmt.Sprintf("@every %ds", tickSeconds),
		followUpDelay: time.Duration(followUpSeconds) * time.Second,
		now:           time.Now,
	}
}

// Start 启动周期检查
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.tickSpec, s.tick); err != nil {
		return fmt.Errorf("failed to register scheduler tick: %w", err)
	}
	c.Start()
	s.cron = c

	window := s.queue.Window()
	logger.Info("Idle scheduler started",
		"tick", s.tickSpec,
		"idle_start", window.Start(),
		"idle_end", window.End(),
	)
	return nil
}

// Shutdown 停止周期检查并取消正在执行的任务
func (s *SchedulerService) Shutdown() {
	s.mu.Lock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
	cancel := s.cancelCurrent
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	logger.Info("Idle scheduler stopped")
}

func (s *SchedulerService) tick() {
	s.checkAndRun(false)
}

// checkAndRun 单次调度检查
// 检查顺序: 执行中 -> 暂停 -> 队列空 -> 闲时段;force跳过闲时段检查
func (s *SchedulerService) checkAndRun(force bool) {
	s.mu.Lock()
	if s.running || s.paused {
		s.mu.Unlock()
		return
	}
	if s.queue.Len() == 0 {
		s.mu.Unlock()
		return
	}
	if !force && !s.queue.Window().Contains(s.now()) {
		s.mu.Unlock()
		return
	}
	s.startNextLocked()
	s.mu.Unlock()
}

// startNextLocked 取出队首任务并启动执行
// 调用方必须持有s.mu,且已确认无任务在执行
func (s *SchedulerService) startNextLocked() {
	task, err := s.queue.PopFront()
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.currentTaskID = task.ID
	s.cancelCurrent = cancel

	go s.execute(ctx, cancel, task)
}

func (s *SchedulerService) execute(ctx context.Context, cancel context.CancelFunc, task *entities.Task) {
	defer cancel()

	start := s.now()
	s.notifier.NotifyTaskStarted(ctx, contracts.TaskNotification{
		TaskID:   task.ID,
		Title:    task.Title,
		Platform: task.Platform,
	})

	result := s.executor.Execute(ctx, task, func(message string, percent int) {
		logger.Debug("Task progress", "task_id", task.ID, "message", message, "percent", percent)
	})

	s.mu.Lock()
	s.running = false
	s.currentTaskID = ""
	s.cancelCurrent = nil
	s.mu.Unlock()

	notification := contracts.TaskNotification{
		TaskID:     task.ID,
		Title:      task.Title,
		Platform:   task.Platform,
		Success:    result.Success,
		ResultPath: result.ResultPath,
		Remaining:  s.queue.Len(),
		Duration:   s.now().Sub(start),
	}
	if result.Success {
		s.notifier.NotifyTaskComplete(context.Background(), notification)
	} else {
		notification.ErrorMessage = result.Error
		s.notifier.NotifyTaskFailed(context.Background(), notification)
	}

	// 任务结束后短暂延迟再查一次,闲时段内连续清空队列
	time.AfterFunc(s.followUpDelay, func() {
		s.checkAndRun(false)
	})
}

// Pause 暂停调度,幂等;不影响正在执行的任务
func (s *SchedulerService) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		s.paused = true
		logger.Info("Idle scheduler paused")
	}
}

// Resume 恢复调度,幂等
func (s *SchedulerService) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		s.paused = false
		logger.Info("Idle scheduler resumed")
	}
}

// RunNextNow 立即执行队首任务,跳过闲时段检查
func (s *SchedulerService) RunNextNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return contracts.ErrAlreadyRunning()
	}
	if s.queue.Len() == 0 {
		return contracts.ErrEmptyQueue()
	}

	logger.Info("Manual run requested, bypassing idle window")
	s.startNextLocked()
	return nil
}

// StopCurrent 取消正在执行的任务并暂停调度
// 任务已出队,取消后不会回到队列
func (s *SchedulerService) StopCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cancelCurrent == nil {
		return contracts.NewServiceError(contracts.ErrorCodeNotFound, "No task is running")
	}

	logger.Info("Cancelling current task", "task_id", s.currentTaskID)
	s.cancelCurrent()
	s.paused = true
	return nil
}

// IsRunning 是否有任务正在执行
func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsPaused 调度是否已暂停
func (s *SchedulerService) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// CurrentTaskID 正在执行的任务ID,空串表示空闲
func (s *SchedulerService) CurrentTaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTaskID
}

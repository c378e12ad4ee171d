package task

import (
	"fmt"
	"sync"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/internal/domain/valueobjects"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/repository"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

const titleDisplayLimit = 50

// QueueService 闲时队列的内存视图与全部变更入口
// 每次变更后整体写回持久化文件,队首任务先出队再执行
type QueueService struct {
	repo   *repository.QueueRepository
	mu     sync.Mutex
	tasks  []*entities.Task
	window valueobjects.IdleWindow
}

// NewQueueService 加载持久化队列并创建服务
// 文件中的闲时段非法时回退到默认值
func NewQueueService(repo *repository.QueueRepository) *QueueService {
	state := repo.Load()

	window, err := valueobjects.NewIdleWindow(state.IdleStartTime, state.IdleEndTime)
	if err != nil {
		logger.Warn("Invalid idle window in queue file, using defaults",
			"start", state.IdleStartTime, "end", state.IdleEndTime, "error", err)
		window = valueobjects.DefaultIdleWindow()
	}

	return &QueueService{
		repo:   repo,
		tasks:  state.Tasks,
		window: window,
	}
}

// Submit 提交新任务
// 校验必填字段,按主标识去重,成功后立即持久化
func (s *QueueService) Submit(req contracts.SubmitTaskRequest) (*contracts.SubmitTaskResponse, error) {
	task, err := buildTask(req)
	if err != nil {
		return nil, err
	}
	if field := task.MissingField(); field != "" {
		return nil, contracts.ErrMissingField(field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	identifier := task.PrimaryIdentifier()
	for _, existing := range s.tasks {
		if existing.PrimaryIdentifier() == identifier {
			return nil, contracts.ErrDuplicateTask(identifier)
		}
	}

	s.tasks = append(s.tasks, task)
	if err := s.persistLocked(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return nil, contracts.NewServiceErrorWithCause(contracts.ErrorCodeInternalError,
			"Failed to persist queue", err)
	}

	logger.Info("Task added to queue",
		"task_id", task.ID,
		"type", task.Type,
		"title", task.Title,
		"queue_length", len(s.tasks),
	)
	return &contracts.SubmitTaskResponse{
		TaskID:      len(s.tasks) - 1,
		QueueLength: len(s.tasks),
		Title:       task.Title,
	}, nil
}

// buildTask 由提交请求构造任务实体
func buildTask(req contracts.SubmitTaskRequest) (*entities.Task, error) {
	if req.URL == "" {
		return nil, contracts.ErrMissingField("url")
	}
	if req.Title == "" {
		return nil, contracts.ErrMissingField("title")
	}

	params := entities.TaskParams{ProcessOptions: entities.DefaultProcessOptions()}
	shortTitle := entities.TruncateTitle(req.Title, titleDisplayLimit)

	var taskType entities.TaskType
	var title string
	switch req.Platform {
	case "youtube":
		taskType = entities.TaskTypeYouTube
		params.YouTubeURL = req.URL
		title = "视频: " + shortTitle
	case "twitter":
		taskType = entities.TaskTypeTwitter
		params.URL = req.URL
		params.Author = req.Author
		params.Text = req.Text
		title = "Twitter: " + shortTitle
	case "bilibili":
		taskType = entities.TaskTypeBilibili
		params.URL = req.URL
		params.Uploader = req.Uploader
		params.VideoID = req.VideoID
		title = "B站: " + shortTitle
	default:
		return nil, contracts.NewServiceError(contracts.ErrorCodeInvalidRequest,
			fmt.Sprintf("Unsupported platform: %s", req.Platform))
	}

	addedVia := req.AddedVia
	if addedVia == "" {
		addedVia = entities.AddedViaChromeExtension
	}

	task := entities.NewTask(taskType, params, title, addedVia)
	task.Platform = req.Platform
	return task, nil
}

// Enqueue 直接入队已构造的任务(GUI等进程内调用方)
func (s *QueueService) Enqueue(task *entities.Task) error {
	if field := task.MissingField(); field != "" {
		return contracts.ErrMissingField(field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	identifier := task.PrimaryIdentifier()
	for _, existing := range s.tasks {
		if existing.PrimaryIdentifier() == identifier {
			return contracts.ErrDuplicateTask(identifier)
		}
	}

	s.tasks = append(s.tasks, task)
	return s.persistLocked()
}

// PopFront 取出队首任务并立即持久化
// 调度器在执行前调用,进程崩溃时最多丢一个正在执行的任务
func (s *QueueService) PopFront() (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tasks) == 0 {
		return nil, contracts.ErrEmptyQueue()
	}

	task := s.tasks[0]
	s.tasks = s.tasks[1:]
	if err := s.persistLocked(); err != nil {
		logger.Error("Failed to persist queue after pop", "error", err)
	}
	return task, nil
}

// RemoveAt 按序号移除任务
func (s *QueueService) RemoveAt(index int) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.tasks) {
		return nil, contracts.ErrIndexOutOfRange(index)
	}

	removed := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	if err := s.persistLocked(); err != nil {
		return nil, contracts.NewServiceErrorWithCause(contracts.ErrorCodeInternalError,
			"Failed to persist queue", err)
	}

	logger.Info("Task removed from queue", "index", index, "title", removed.Title)
	return removed, nil
}

// Move 队列内上移或下移任务
func (s *QueueService) Move(req contracts.MoveTaskRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Index < 0 || req.Index >= len(s.tasks) {
		return contracts.ErrIndexOutOfRange(req.Index)
	}

	target := req.Index
	switch req.Direction {
	case contracts.MoveUp:
		target = req.Index - 1
	case contracts.MoveDown:
		target = req.Index + 1
	default:
		return contracts.NewServiceError(contracts.ErrorCodeInvalidRequest,
			fmt.Sprintf("Unsupported move direction: %s", req.Direction))
	}
	if target < 0 || target >= len(s.tasks) {
		// 已在队列边缘,保持原位
		return nil
	}

	s.tasks[req.Index], s.tasks[target] = s.tasks[target], s.tasks[req.Index]
	return s.persistLocked()
}

// Clear 清空队列,返回清除的任务数
func (s *QueueService) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	s.tasks = []*entities.Task{}
	if err := s.persistLocked(); err != nil {
		return 0, contracts.NewServiceErrorWithCause(contracts.ErrorCodeInternalError,
			"Failed to persist queue", err)
	}

	logger.Info("Queue cleared", "removed", removed)
	return removed, nil
}

// Len 当前队列长度
func (s *QueueService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tasks 队列任务的副本,顺序与执行顺序一致
func (s *QueueService) Tasks() []*entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Window 当前闲时段
func (s *QueueService) Window() valueobjects.IdleWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// UpdateWindow 更新闲时段,两个参数缺省时保持原值
// 任一时间格式非法则整体拒绝,不做部分更新
func (s *QueueService) UpdateWindow(req contracts.UpdateSettingsRequest) (valueobjects.IdleWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.window.Start()
	end := s.window.End()
	if req.IdleStartTime != nil {
		start = *req.IdleStartTime
	}
	if req.IdleEndTime != nil {
		end = *req.IdleEndTime
	}

	window, err := valueobjects.NewIdleWindow(start, end)
	if err != nil {
		bad := start
		if req.IdleStartTime == nil {
			bad = end
		}
		return s.window, contracts.ErrInvalidTimeFormat(bad)
	}

	s.window = window
	if err := s.persistLocked(); err != nil {
		return s.window, contracts.NewServiceErrorWithCause(contracts.ErrorCodeInternalError,
			"Failed to persist settings", err)
	}

	logger.Info("Idle window updated", "start", window.Start(), "end", window.End())
	return window, nil
}

// Snapshot 队列与调度状态的一致性快照
// 运行状态由调度器持有,通过参数传入
func (s *QueueService) Snapshot(isRunning, isPaused bool) contracts.QueueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*entities.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return contracts.QueueSnapshot{
		Tasks:         tasks,
		IdleStartTime: s.window.Start(),
		IdleEndTime:   s.window.End(),
		IsIdleRunning: isRunning,
		IdlePaused:    isPaused,
	}
}

func (s *QueueService) persistLocked() error {
	return s.repo.Save(&repository.QueueState{
		Tasks:         s.tasks,
		IdleStartTime: s.window.Start(),
		IdleEndTime:   s.window.End(),
	})
}

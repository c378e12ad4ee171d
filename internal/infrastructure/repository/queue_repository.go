package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/internal/domain/valueobjects"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// QueueState 持久化的队列文档
// JSON键与历史格式保持一致,旧文件可直接加载
type QueueState struct {
	Tasks         []*entities.Task `json:"tasks"`
	IdleStartTime string           `json:"idle_start_time"`
	IdleEndTime   string           `json:"idle_end_time"`
}

// QueueRepository 闲时队列的JSON文件仓库
// 进程内唯一写入者,每次变更后整体重写文件
type QueueRepository struct {
	filePath string
	mu       sync.Mutex
}

func NewQueueRepository(filePath string) (*QueueRepository, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &QueueRepository{filePath: filePath}, nil
}

// Load 加载队列状态
// 文件缺失或损坏时返回空队列与默认闲时段,不向调用方报错
func (r *QueueRepository) Load() *QueueState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := &QueueState{
		Tasks:         []*entities.Task{},
		IdleStartTime: valueobjects.DefaultIdleStart,
		IdleEndTime:   valueobjects.DefaultIdleEnd,
	}

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed to read queue file, starting with empty queue", "path", r.filePath, "error", err)
		}
		return state
	}

	var loaded QueueState
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Error("Failed to parse queue file, starting with empty queue", "path", r.filePath, "error", err)
		return state
	}

	if loaded.Tasks != nil {
		state.Tasks = loaded.Tasks
	}
	if loaded.IdleStartTime != "" {
		state.IdleStartTime = loaded.IdleStartTime
	}
	if loaded.IdleEndTime != "" {
		state.IdleEndTime = loaded.IdleEndTime
	}

	logger.Info("Idle queue loaded", "path", r.filePath, "tasks", len(state.Tasks))
	return state
}

// Save 整体写入队列状态
// 先写临时文件再重命名,避免崩溃留下半个文档
func (r *QueueRepository) Save(state *QueueState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal queue state: %w", err)
	}

	tmpPath := r.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write queue file: %w", err)
	}
	if err := os.Rename(tmpPath, r.filePath); err != nil {
		return fmt.Errorf("failed to replace queue file: %w", err)
	}
	return nil
}

package task

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/repository"
)

func newTestQueue(t *testing.T) (*QueueService, string) {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "queue.json")
	repo, err := repository.NewQueueRepository(filePath)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return NewQueueService(repo), filePath
}

func reloadQueue(t *testing.T, filePath string) *QueueService {
	t.Helper()
	repo, err := repository.NewQueueRepository(filePath)
	if err != nil {
		t.Fatalf("failed to reopen repository: %v", err)
	}
	return NewQueueService(repo)
}

func makeTask(title, url string) *entities.Task {
	return entities.NewTask(entities.TaskTypeYouTube,
		entities.TaskParams{YouTubeURL: url}, title, entities.AddedViaGUI)
}

func serviceErrorCode(t *testing.T, err error) contracts.ErrorCode {
	t.Helper()
	var svcErr *contracts.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	return svcErr.Code
}

func TestSubmitAddsTask(t *testing.T) {
	service, _ := newTestQueue(t)

	resp, err := service.Submit(contracts.SubmitTaskRequest{
		Platform: "youtube",
		URL:      "https://youtube.com/watch?v=abc",
		Title:    "Go并发模式详解",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.TaskID != 0 {
		t.Errorf("task id = %d, want 0", resp.TaskID)
	}
	if resp.QueueLength != 1 {
		t.Errorf("queue length = %d, want 1", resp.QueueLength)
	}
	if resp.Title != "视频: Go并发模式详解" {
		t.Errorf("title = %q, want prefixed title", resp.Title)
	}

	tasks := service.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("queue has %d tasks, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Type != entities.TaskTypeYouTube {
		t.Errorf("task type = %s, want youtube", task.Type)
	}
	if task.Params.YouTubeURL != "https://youtube.com/watch?v=abc" {
		t.Errorf("task url = %q", task.Params.YouTubeURL)
	}
	if task.AddedVia != entities.AddedViaChromeExtension {
		t.Errorf("added via = %q, want chrome_extension", task.AddedVia)
	}
	if task.ID == "" {
		t.Error("task id is empty")
	}
}

func TestSubmitPlatformMapping(t *testing.T) {
	tests := []struct {
		platform  string
		wantType  entities.TaskType
		wantTitle string
	}{
		{"youtube", entities.TaskTypeYouTube, "视频: 测试"},
		{"twitter", entities.TaskTypeTwitter, "Twitter: 测试"},
		{"bilibili", entities.TaskTypeBilibili, "B站: 测试"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			service, _ := newTestQueue(t)
			resp, err := service.Submit(contracts.SubmitTaskRequest{
				Platform: tt.platform,
				URL:      "https://example.com/v/1",
				Title:    "测试",
			})
			if err != nil {
				t.Fatalf("submit failed: %v", err)
			}
			if resp.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", resp.Title, tt.wantTitle)
			}
			if got := service.Tasks()[0].Type; got != tt.wantType {
				t.Errorf("task type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      contracts.SubmitTaskRequest
		wantCode contracts.ErrorCode
	}{
		{
			name:     "missing url",
			req:      contracts.SubmitTaskRequest{Platform: "youtube", Title: "t"},
			wantCode: contracts.ErrorCodeInvalidRequest,
		},
		{
			name:     "missing title",
			req:      contracts.SubmitTaskRequest{Platform: "youtube", URL: "https://x.com/1"},
			wantCode: contracts.ErrorCodeInvalidRequest,
		},
		{
			name:     "unsupported platform",
			req:      contracts.SubmitTaskRequest{Platform: "vimeo", URL: "https://x.com/1", Title: "t"},
			wantCode: contracts.ErrorCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestQueue(t)
			_, err := service.Submit(tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if code := serviceErrorCode(t, err); code != tt.wantCode {
				t.Errorf("error code = %s, want %s", code, tt.wantCode)
			}
			if service.Len() != 0 {
				t.Errorf("queue length = %d, want 0", service.Len())
			}
		})
	}
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	service, _ := newTestQueue(t)

	req := contracts.SubmitTaskRequest{
		Platform: "youtube",
		URL:      "https://youtube.com/watch?v=dup",
		Title:    "first",
	}
	if _, err := service.Submit(req); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	req.Title = "second"
	_, err := service.Submit(req)
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
	if code := serviceErrorCode(t, err); code != contracts.ErrorCodeConflict {
		t.Errorf("error code = %s, want CONFLICT", code)
	}
	if service.Len() != 1 {
		t.Errorf("queue length = %d, want 1", service.Len())
	}
}

func TestSubmitPersistsAcrossReload(t *testing.T) {
	service, filePath := newTestQueue(t)

	if _, err := service.Submit(contracts.SubmitTaskRequest{
		Platform: "bilibili",
		URL:      "https://bilibili.com/video/BV1",
		Title:    "持久化测试",
		Uploader: "up主",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reloaded := reloadQueue(t, filePath)
	tasks := reloaded.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("reloaded queue has %d tasks, want 1", len(tasks))
	}
	if tasks[0].Params.URL != "https://bilibili.com/video/BV1" {
		t.Errorf("reloaded url = %q", tasks[0].Params.URL)
	}
	if tasks[0].Params.Uploader != "up主" {
		t.Errorf("reloaded uploader = %q", tasks[0].Params.Uploader)
	}
}

func TestPopFrontOrderAndPersistence(t *testing.T) {
	service, filePath := newTestQueue(t)

	for _, title := range []string{"a", "b", "c"} {
		if err := service.Enqueue(makeTask(title, "https://x.com/"+title)); err != nil {
			t.Fatalf("enqueue %s failed: %v", title, err)
		}
	}

	task, err := service.PopFront()
	if err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if task.Title != "a" {
		t.Errorf("popped %q, want first task", task.Title)
	}
	if service.Len() != 2 {
		t.Errorf("queue length = %d, want 2", service.Len())
	}

	// 出队必须先落盘再执行
	reloaded := reloadQueue(t, filePath)
	if reloaded.Len() != 2 {
		t.Errorf("reloaded queue length = %d, want 2", reloaded.Len())
	}

	if _, err := service.PopFront(); err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	if _, err := service.PopFront(); err != nil {
		t.Fatalf("pop failed: %v", err)
	}
	_, err = service.PopFront()
	if err == nil {
		t.Fatal("expected empty queue error, got nil")
	}
	if code := serviceErrorCode(t, err); code != contracts.ErrorCodeNotFound {
		t.Errorf("error code = %s, want NOT_FOUND", code)
	}
}

func TestRemoveAt(t *testing.T) {
	service, _ := newTestQueue(t)
	for _, title := range []string{"a", "b", "c"} {
		if err := service.Enqueue(makeTask(title, "https://x.com/"+title)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	removed, err := service.RemoveAt(1)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed.Title != "b" {
		t.Errorf("removed %q, want b", removed.Title)
	}

	tasks := service.Tasks()
	if len(tasks) != 2 || tasks[0].Title != "a" || tasks[1].Title != "c" {
		t.Errorf("unexpected queue after remove: %v", titles(tasks))
	}

	for _, index := range []int{-1, 2, 100} {
		_, err := service.RemoveAt(index)
		if err == nil {
			t.Fatalf("remove(%d) expected error, got nil", index)
		}
		if code := serviceErrorCode(t, err); code != contracts.ErrorCodeNotFound {
			t.Errorf("remove(%d) code = %s, want NOT_FOUND", index, code)
		}
	}
}

func TestMove(t *testing.T) {
	service, _ := newTestQueue(t)
	for _, title := range []string{"a", "b", "c"} {
		if err := service.Enqueue(makeTask(title, "https://x.com/"+title)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	if err := service.Move(contracts.MoveTaskRequest{Index: 2, Direction: contracts.MoveUp}); err != nil {
		t.Fatalf("move up failed: %v", err)
	}
	if got := titles(service.Tasks()); got[1] != "c" {
		t.Errorf("after move up: %v", got)
	}

	// 队首上移与队尾下移保持原位
	if err := service.Move(contracts.MoveTaskRequest{Index: 0, Direction: contracts.MoveUp}); err != nil {
		t.Fatalf("move at edge failed: %v", err)
	}
	if err := service.Move(contracts.MoveTaskRequest{Index: 2, Direction: contracts.MoveDown}); err != nil {
		t.Fatalf("move at edge failed: %v", err)
	}
	if got := titles(service.Tasks()); got[0] != "a" || got[2] != "b" {
		t.Errorf("edge moves changed order: %v", got)
	}

	if err := service.Move(contracts.MoveTaskRequest{Index: 5, Direction: contracts.MoveUp}); err == nil {
		t.Fatal("expected out of range error, got nil")
	}
	if err := service.Move(contracts.MoveTaskRequest{Index: 0, Direction: "sideways"}); err == nil {
		t.Fatal("expected invalid direction error, got nil")
	}
}

func TestClear(t *testing.T) {
	service, filePath := newTestQueue(t)
	for _, title := range []string{"a", "b"} {
		if err := service.Enqueue(makeTask(title, "https://x.com/"+title)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	removed, err := service.Clear()
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("cleared %d tasks, want 2", removed)
	}
	if service.Len() != 0 {
		t.Errorf("queue length = %d, want 0", service.Len())
	}
	if reloadQueue(t, filePath).Len() != 0 {
		t.Error("clear was not persisted")
	}
}

func TestUpdateWindow(t *testing.T) {
	service, filePath := newTestQueue(t)

	start := "22:30"
	window, err := service.UpdateWindow(contracts.UpdateSettingsRequest{IdleStartTime: &start})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if window.Start() != "22:30" || window.End() != "07:00" {
		t.Errorf("window = %s, want 22:30 - 07:00", window)
	}

	reloaded := reloadQueue(t, filePath)
	if reloaded.Window().Start() != "22:30" {
		t.Error("window update was not persisted")
	}

	bad := "25:99"
	_, err = service.UpdateWindow(contracts.UpdateSettingsRequest{IdleEndTime: &bad})
	if err == nil {
		t.Fatal("expected invalid format error, got nil")
	}
	if code := serviceErrorCode(t, err); code != contracts.ErrorCodeInvalidRequest {
		t.Errorf("error code = %s, want INVALID_REQUEST", code)
	}
	if service.Window().End() != "07:00" {
		t.Errorf("window end = %s, rejected update must not apply", service.Window().End())
	}
}

func TestSnapshot(t *testing.T) {
	service, _ := newTestQueue(t)
	if err := service.Enqueue(makeTask("a", "https://x.com/a")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	snapshot := service.Snapshot(true, false)
	if len(snapshot.Tasks) != 1 {
		t.Errorf("snapshot has %d tasks, want 1", len(snapshot.Tasks))
	}
	if snapshot.IdleStartTime != "23:00" || snapshot.IdleEndTime != "07:00" {
		t.Errorf("snapshot window = %s - %s", snapshot.IdleStartTime, snapshot.IdleEndTime)
	}
	if !snapshot.IsIdleRunning || snapshot.IdlePaused {
		t.Error("snapshot did not carry scheduler state")
	}
}

func titles(tasks []*entities.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

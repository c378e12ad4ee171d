package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
)

type fakeDownloader struct {
	calls     []contracts.DownloadRequest
	result    *contracts.DownloadResult
	err       error
	failURLs  map[string]bool
	cleanedUp bool
	panicMsg  string
}

func (f *fakeDownloader) Download(ctx context.Context, req contracts.DownloadRequest, onProgress contracts.ProgressFunc) (*contracts.DownloadResult, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.failURLs[req.URL] {
		return nil, context.DeadlineExceeded
	}
	result := *f.result
	if !req.KeepMedia {
		result.Cleanup = func() { f.cleanedUp = true }
	}
	return &result, nil
}

type fakeTranscriber struct {
	calls  []contracts.TranscribeRequest
	result *contracts.TranscribeResult
	err    error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, req contracts.TranscribeRequest, onProgress contracts.ProgressFunc) (*contracts.TranscribeResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeSummarizer struct {
	enabled bool
	calls   []contracts.SummaryRequest
	result  *contracts.SummaryResult
	err     error
}

func (f *fakeSummarizer) Enabled() bool { return f.enabled }

func (f *fakeSummarizer) GenerateArticle(ctx context.Context, req contracts.SummaryRequest) (*contracts.SummaryResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestExecutor() (*Executor, *fakeDownloader, *fakeTranscriber, *fakeSummarizer) {
	downloader := &fakeDownloader{
		result: &contracts.DownloadResult{FilePath: "/tmp/video.mp4", Title: "video"},
	}
	transcriber := &fakeTranscriber{
		result: &contracts.TranscribeResult{TranscriptPath: "/tmp/video.txt", Text: "转录文本"},
	}
	summarizer := &fakeSummarizer{
		enabled: true,
		result:  &contracts.SummaryResult{ArticlePath: "/tmp/video.md"},
	}
	return NewExecutor(downloader, transcriber, summarizer), downloader, transcriber, summarizer
}

func mediaTask(params entities.TaskParams) *entities.Task {
	return entities.NewTask(entities.TaskTypeYouTube, params, "视频: test", entities.AddedViaGUI)
}

func TestExecuteUnsupportedType(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	task := entities.NewTask("unknown_type", entities.TaskParams{}, "t", entities.AddedViaGUI)

	result := exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure for unsupported type")
	}
	if !strings.Contains(result.Error, "unsupported task type") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	exec, downloader, _, _ := newTestExecutor()
	downloader.panicMsg = "boom"
	task := mediaTask(entities.TaskParams{YouTubeURL: "https://x.com/1"})

	result := exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure after panic")
	}
	if !strings.Contains(result.Error, "boom") {
		t.Errorf("error = %q, want panic message", result.Error)
	}
}

func TestMediaPipelineDownloadOnly(t *testing.T) {
	exec, downloader, transcriber, _ := newTestExecutor()
	params := entities.TaskParams{YouTubeURL: "https://x.com/1"}
	params.DownloadVideo = true

	result := exec.Execute(context.Background(), mediaTask(params), nil)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Error)
	}
	if result.ResultPath != "/tmp/video.mp4" {
		t.Errorf("result path = %q, want downloaded file", result.ResultPath)
	}
	if len(downloader.calls) != 1 {
		t.Fatalf("download called %d times", len(downloader.calls))
	}
	if !downloader.calls[0].KeepMedia || downloader.calls[0].AudioOnly {
		t.Errorf("download request = %+v, want keep full video", downloader.calls[0])
	}
	if len(transcriber.calls) != 0 {
		t.Error("transcriber called without enable_transcription")
	}
}

func TestMediaPipelineFull(t *testing.T) {
	exec, downloader, transcriber, summarizer := newTestExecutor()
	params := entities.TaskParams{YouTubeURL: "https://x.com/1"}
	params.EnableTranscription = true
	params.GenerateArticle = true
	params.WhisperModelSize = "medium"
	params.CookiesFile = "/tmp/cookies.txt"

	result := exec.Execute(context.Background(), mediaTask(params), nil)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Error)
	}
	if result.ResultPath != "/tmp/video.md" {
		t.Errorf("result path = %q, want article", result.ResultPath)
	}

	// 不保留视频时走临时下载,音频足够转录
	if downloader.calls[0].KeepMedia || !downloader.calls[0].AudioOnly {
		t.Errorf("download request = %+v, want temp audio download", downloader.calls[0])
	}
	if downloader.calls[0].CookiesFile != "/tmp/cookies.txt" {
		t.Errorf("cookies = %q", downloader.calls[0].CookiesFile)
	}
	if !downloader.cleanedUp {
		t.Error("temp download not cleaned up")
	}

	if len(transcriber.calls) != 1 || transcriber.calls[0].ModelSize != "medium" {
		t.Errorf("transcribe calls = %+v", transcriber.calls)
	}
	if len(summarizer.calls) != 1 || summarizer.calls[0].Transcript != "转录文本" {
		t.Errorf("summarize calls = %+v", summarizer.calls)
	}
}

func TestMediaPipelineSkipsArticleWhenDisabled(t *testing.T) {
	exec, _, _, summarizer := newTestExecutor()
	summarizer.enabled = false
	params := entities.TaskParams{YouTubeURL: "https://x.com/1"}
	params.EnableTranscription = true
	params.GenerateArticle = true

	result := exec.Execute(context.Background(), mediaTask(params), nil)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Error)
	}
	if result.ResultPath != "/tmp/video.txt" {
		t.Errorf("result path = %q, want transcript", result.ResultPath)
	}
	if len(summarizer.calls) != 0 {
		t.Error("disabled summarizer was called")
	}
}

func TestMediaPipelineDownloadError(t *testing.T) {
	exec, downloader, _, _ := newTestExecutor()
	downloader.err = os.ErrDeadlineExceeded

	result := exec.Execute(context.Background(), mediaTask(entities.TaskParams{YouTubeURL: "https://x.com/1"}), nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "download failed") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestLocalMediaMissingFile(t *testing.T) {
	exec, _, _, _ := newTestExecutor()
	task := entities.NewTask(entities.TaskTypeLocalAudio,
		entities.TaskParams{AudioPath: "/nonexistent/audio.mp3"}, "音频", entities.AddedViaGUI)

	result := exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure for missing file")
	}
	if !strings.Contains(result.Error, "not found") {
		t.Errorf("error = %q", result.Error)
	}
}

func TestLocalText(t *testing.T) {
	exec, _, _, summarizer := newTestExecutor()

	textPath := filepath.Join(t.TempDir(), "笔记.txt")
	if err := os.WriteFile(textPath, []byte("原始文本内容"), 0644); err != nil {
		t.Fatal(err)
	}
	task := entities.NewTask(entities.TaskTypeLocalText,
		entities.TaskParams{TextPath: textPath}, "文本", entities.AddedViaGUI)

	result := exec.Execute(context.Background(), task, nil)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Error)
	}
	if result.ResultPath != "/tmp/video.md" {
		t.Errorf("result path = %q", result.ResultPath)
	}
	if len(summarizer.calls) != 1 {
		t.Fatalf("summarizer called %d times", len(summarizer.calls))
	}
	if summarizer.calls[0].Transcript != "原始文本内容" {
		t.Errorf("transcript = %q", summarizer.calls[0].Transcript)
	}
	if summarizer.calls[0].Title != "笔记" {
		t.Errorf("title = %q, want file name without extension", summarizer.calls[0].Title)
	}

	// 文本任务的全部产出就是文章,LLM禁用直接失败
	summarizer.enabled = false
	result = exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure with disabled summarizer")
	}
}

func TestBatchContinuesOnFailure(t *testing.T) {
	exec, downloader, _, _ := newTestExecutor()
	downloader.failURLs = map[string]bool{"https://x.com/2": true}
	params := entities.TaskParams{
		URLs: []string{"https://x.com/1", "https://x.com/2", "https://x.com/3"},
	}
	params.DownloadVideo = true
	task := entities.NewTask(entities.TaskTypeBatch, params, "批量", entities.AddedViaGUI)

	result := exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure when an item fails")
	}
	if !strings.Contains(result.Error, "1/3") {
		t.Errorf("error = %q, want failed item count", result.Error)
	}
	if len(downloader.calls) != 3 {
		t.Errorf("download called %d times, want all items attempted", len(downloader.calls))
	}
}

func TestLocalVideoBatch(t *testing.T) {
	exec, _, transcriber, _ := newTestExecutor()

	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.MKV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	task := entities.NewTask(entities.TaskTypeLocalVideoBatch,
		entities.TaskParams{VideoPath: dir}, "批量转录", entities.AddedViaGUI)

	result := exec.Execute(context.Background(), task, nil)
	if !result.Success {
		t.Fatalf("execute failed: %s", result.Error)
	}
	if len(transcriber.calls) != 2 {
		t.Errorf("transcribed %d files, want 2 video files", len(transcriber.calls))
	}

	empty := t.TempDir()
	task = entities.NewTask(entities.TaskTypeLocalVideoBatch,
		entities.TaskParams{VideoPath: empty}, "空目录", entities.AddedViaGUI)
	result = exec.Execute(context.Background(), task, nil)
	if result.Success {
		t.Fatal("expected failure for directory without videos")
	}
}

package contracts

import (
	"context"

	"github.com/easayliu/video-idle-queue/internal/domain/entities"
)

// ProgressFunc 执行进度回调
// percent < 0 表示进度未知,只携带消息
type ProgressFunc func(message string, percent int)

// ExecutionResult 单个任务的统一执行结果
// 执行失败不会以error形式上抛,调度循环据此决定是否继续
type ExecutionResult struct {
	Success    bool   `json:"success"`
	ResultPath string `json:"result_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TaskExecutor 任务执行器
// Execute不会panic也不会返回error:协作方的一切异常都折叠进ExecutionResult
type TaskExecutor interface {
	Execute(ctx context.Context, task *entities.Task, onProgress ProgressFunc) ExecutionResult
}

// DownloadRequest 视频/音频下载请求
type DownloadRequest struct {
	URL         string
	CookiesFile string
	AudioOnly   bool
	// KeepMedia为false时下载到临时目录,仅用于转录,完成后删除
	KeepMedia bool
}

// DownloadResult 下载结果
type DownloadResult struct {
	FilePath string
	Title    string
	Cleanup  func() // 临时下载的清理函数,可能为nil
}

// MediaDownloader 平台下载协作方(yt-dlp)
type MediaDownloader interface {
	Download(ctx context.Context, req DownloadRequest, onProgress ProgressFunc) (*DownloadResult, error)
}

// TranscribeRequest 语音转文字请求
type TranscribeRequest struct {
	MediaPath         string
	ModelSize         string
	SourceLanguage    string
	GenerateSubtitles bool
}

// TranscribeResult 转录结果
type TranscribeResult struct {
	TranscriptPath string
	SubtitlePath   string
	Text           string
}

// Transcriber 语音转文字协作方(whisper)
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscribeRequest, onProgress ProgressFunc) (*TranscribeResult, error)
}

// SummaryRequest 文章生成请求
type SummaryRequest struct {
	Title        string
	Transcript   string
	CustomPrompt string
	TemplatePath string
}

// SummaryResult 文章生成结果
type SummaryResult struct {
	ArticlePath string
}

// Summarizer LLM文章生成协作方
type Summarizer interface {
	// Enabled 未配置API Key时返回false,任务跳过文章生成
	Enabled() bool
	GenerateArticle(ctx context.Context, req SummaryRequest) (*SummaryResult, error)
}

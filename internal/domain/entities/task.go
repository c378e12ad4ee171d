package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskType 任务类型枚举
type TaskType string

const (
	TaskTypeYouTube         TaskType = "youtube"           // YouTube等远程视频(含Twitter/抖音链接的通用入口)
	TaskTypeTwitter         TaskType = "twitter"           // Twitter/X视频
	TaskTypeBilibili        TaskType = "bilibili"          // B站视频
	TaskTypeLocalAudio      TaskType = "local_audio"       // 本地音频
	TaskTypeLocalVideo      TaskType = "local_video"       // 本地视频
	TaskTypeLocalVideoBatch TaskType = "local_video_batch" // 本地视频目录批量
	TaskTypeLocalText       TaskType = "local_text"        // 本地文本
	TaskTypeBatch           TaskType = "batch"             // 远程链接批量
)

// Valid 判断是否为已知任务类型
// 未知类型只可能来自旧版本或外部写入的持久化文件
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeYouTube, TaskTypeTwitter, TaskTypeBilibili,
		TaskTypeLocalAudio, TaskTypeLocalVideo, TaskTypeLocalVideoBatch,
		TaskTypeLocalText, TaskTypeBatch:
		return true
	}
	return false
}

// 任务来源
const (
	AddedViaGUI             = "gui"
	AddedViaChromeExtension = "chrome_extension"
)

// ProcessOptions 各类型任务共享的处理开关
type ProcessOptions struct {
	Model                 string `json:"model,omitempty"`
	APIKey                string `json:"api_key,omitempty"`
	BaseURL               string `json:"base_url,omitempty"`
	WhisperModelSize      string `json:"whisper_model_size,omitempty"`
	Stream                bool   `json:"stream"`
	SummaryDir            string `json:"summary_dir,omitempty"`
	DownloadVideo         bool   `json:"download_video"`
	CustomPrompt          string `json:"custom_prompt,omitempty"`
	TemplatePath          string `json:"template_path,omitempty"`
	GenerateSubtitles     bool   `json:"generate_subtitles"`
	TranslateToChinese    bool   `json:"translate_to_chinese"`
	EmbedSubtitles        bool   `json:"embed_subtitles"`
	CookiesFile           string `json:"cookies_file,omitempty"`
	PreferNativeSubtitles bool   `json:"prefer_native_subtitles"`
	EnableTranscription   bool   `json:"enable_transcription"`
	GenerateArticle       bool   `json:"generate_article"`
	SourceLanguage        string `json:"source_language,omitempty"`
}

// DefaultProcessOptions 浏览器扩展提交任务时使用的默认处理开关
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{
		WhisperModelSize:  "small",
		Stream:            true,
		SummaryDir:        "summaries",
		DownloadVideo:     true,
		GenerateSubtitles: true,
		EmbedSubtitles:    true,
	}
}

// TaskParams 任务参数
// 目标字段按任务类型取其一,处理开关对所有类型通用;
// JSON键与持久化文件的历史格式保持一致
type TaskParams struct {
	YouTubeURL string   `json:"youtube_url,omitempty"` // youtube类型
	URL        string   `json:"url,omitempty"`         // twitter/bilibili类型
	URLs       []string `json:"youtube_urls,omitempty"` // batch类型
	AudioPath  string   `json:"audio_path,omitempty"`  // local_audio类型
	VideoPath  string   `json:"video_path,omitempty"`  // local_video(_batch)类型
	TextPath   string   `json:"text_path,omitempty"`   // local_text类型

	Author   string `json:"author,omitempty"`   // twitter附加信息
	Text     string `json:"text,omitempty"`     // twitter附加信息
	Uploader string `json:"uploader,omitempty"` // bilibili附加信息
	VideoID  string `json:"videoId,omitempty"`  // bilibili附加信息

	ProcessOptions
}

// Task 闲时任务实体
// 入队后除队列位置外不可变,调度器不会修改Params
type Task struct {
	ID        string     `json:"id"`
	Type      TaskType   `json:"type"`
	Params    TaskParams `json:"params"`
	Title     string     `json:"title"`
	Platform  string     `json:"platform,omitempty"`
	AddedTime time.Time  `json:"addedTime"`
	AddedVia  string     `json:"addedVia"`
}

// NewTask 创建任务实体
func NewTask(taskType TaskType, params TaskParams, title, addedVia string) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Params:    params,
		Title:     title,
		AddedTime: time.Now(),
		AddedVia:  addedVia,
	}
}

// PrimaryIdentifier 提取任务的主标识,用于去重
// 远程任务取URL,本地任务取文件路径,批量任务取第一个URL
func (t *Task) PrimaryIdentifier() string {
	switch {
	case t.Params.YouTubeURL != "":
		return t.Params.YouTubeURL
	case t.Params.URL != "":
		return t.Params.URL
	case len(t.Params.URLs) > 0:
		return t.Params.URLs[0]
	case t.Params.AudioPath != "":
		return t.Params.AudioPath
	case t.Params.VideoPath != "":
		return t.Params.VideoPath
	case t.Params.TextPath != "":
		return t.Params.TextPath
	}
	return ""
}

// MissingField 校验必填字段,返回第一个缺失的字段名,完整时返回空串
func (t *Task) MissingField() string {
	if t.Title == "" {
		return "title"
	}
	switch t.Type {
	case TaskTypeYouTube:
		if t.Params.YouTubeURL == "" {
			return "url"
		}
	case TaskTypeTwitter, TaskTypeBilibili:
		if t.Params.URL == "" {
			return "url"
		}
	case TaskTypeBatch:
		if len(t.Params.URLs) == 0 {
			return "urls"
		}
	case TaskTypeLocalAudio:
		if t.Params.AudioPath == "" {
			return "audio_path"
		}
	case TaskTypeLocalVideo, TaskTypeLocalVideoBatch:
		if t.Params.VideoPath == "" {
			return "video_path"
		}
	case TaskTypeLocalText:
		if t.Params.TextPath == "" {
			return "text_path"
		}
	}
	return ""
}

// TruncateTitle 截断过长的任务标题,用于队列展示
func TruncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}

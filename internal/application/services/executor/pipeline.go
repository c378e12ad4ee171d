package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/domain/entities"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".webm": true, ".mov": true,
	".avi": true, ".flv": true, ".ts": true, ".m4v": true,
}

// runMediaPipeline 远程链接的完整流水线: 下载 -> 转录 -> 文章
// 转录和文章生成都是可选步骤,由任务参数控制
func (e *Executor) runMediaPipeline(ctx context.Context, url string, params entities.TaskParams, onProgress contracts.ProgressFunc) contracts.ExecutionResult {
	if url == "" {
		return failure("task has no url")
	}

	downloaded, err := e.downloader.Download(ctx, contracts.DownloadRequest{
		URL:         url,
		CookiesFile: params.CookiesFile,
		AudioOnly:   !params.DownloadVideo,
		KeepMedia:   params.DownloadVideo,
	}, onProgress)
	if err != nil {
		return failure(fmt.Sprintf("download failed: %v", err))
	}
	if downloaded.Cleanup != nil {
		defer downloaded.Cleanup()
	}

	resultPath := downloaded.FilePath
	if !params.EnableTranscription {
		return contracts.ExecutionResult{Success: true, ResultPath: resultPath}
	}

	transcribed, err := e.transcribe(ctx, downloaded.FilePath, params, onProgress)
	if err != nil {
		return failure(fmt.Sprintf("transcription failed: %v", err))
	}
	resultPath = transcribed.TranscriptPath

	if params.GenerateArticle {
		articlePath, err := e.generateArticle(ctx, downloaded.Title, transcribed.Text, params)
		if err != nil {
			return failure(fmt.Sprintf("article generation failed: %v", err))
		}
		if articlePath != "" {
			resultPath = articlePath
		}
	}
	return contracts.ExecutionResult{Success: true, ResultPath: resultPath}
}

// runLocalMedia 本地音视频: 转录 -> 文章
func (e *Executor) runLocalMedia(ctx context.Context, mediaPath string, params entities.TaskParams, onProgress contracts.ProgressFunc) contracts.ExecutionResult {
	if _, err := os.Stat(mediaPath); err != nil {
		return failure(fmt.Sprintf("media file not found: %s", mediaPath))
	}

	transcribed, err := e.transcribe(ctx, mediaPath, params, onProgress)
	if err != nil {
		return failure(fmt.Sprintf("transcription failed: %v", err))
	}

	resultPath := transcribed.TranscriptPath
	if params.GenerateArticle {
		title := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
		articlePath, err := e.generateArticle(ctx, title, transcribed.Text, params)
		if err != nil {
			return failure(fmt.Sprintf("article generation failed: %v", err))
		}
		if articlePath != "" {
			resultPath = articlePath
		}
	}
	return contracts.ExecutionResult{Success: true, ResultPath: resultPath}
}

// runLocalText 本地文本直接生成文章
func (e *Executor) runLocalText(ctx context.Context, params entities.TaskParams, onProgress contracts.ProgressFunc) contracts.ExecutionResult {
	data, err := os.ReadFile(params.TextPath)
	if err != nil {
		return failure(fmt.Sprintf("failed to read text file: %v", err))
	}
	if !e.summarizer.Enabled() {
		return failure("article generation is disabled: no API key configured")
	}

	onProgress("生成文章: "+filepath.Base(params.TextPath), -1)
	title := strings.TrimSuffix(filepath.Base(params.TextPath), filepath.Ext(params.TextPath))
	summary, err := e.summarizer.GenerateArticle(ctx, contracts.SummaryRequest{
		Title:        title,
		Transcript:   string(data),
		CustomPrompt: params.CustomPrompt,
		TemplatePath: params.TemplatePath,
	})
	if err != nil {
		return failure(fmt.Sprintf("article generation failed: %v", err))
	}
	return contracts.ExecutionResult{Success: true, ResultPath: summary.ArticlePath}
}

// runBatch 依次处理多个远程链接
// 单个链接失败不中断后续,全部结束后统一汇报
func (e *Executor) runBatch(ctx context.Context, params entities.TaskParams, onProgress contracts.ProgressFunc) contracts.ExecutionResult {
	total := len(params.URLs)
	if total == 0 {
		return failure("batch task has no urls")
	}

	var failed []string
	var lastResult string
	for i, url := range params.URLs {
		if ctx.Err() != nil {
			return failure(fmt.Sprintf("batch cancelled after %d/%d items", i, total))
		}

		onProgress(fmt.Sprintf("批量任务 %d/%d: %s", i+1, total, url), i*100/total)
		result := e.runMediaPipeline(ctx, url, params, onProgress)
		if result.Success {
			lastResult = result.ResultPath
		} else {
			logger.Warn("Batch item failed", "url", url, "error", result.Error)
			failed = append(failed, url)
		}
	}

	if len(failed) > 0 {
		return failure(fmt.Sprintf("%d/%d items failed: %s", len(failed), total, strings.Join(failed, ", ")))
	}
	return contracts.ExecutionResult{Success: true, ResultPath: lastResult}
}

// runLocalVideoBatch 扫描目录下的视频文件依次转录
func (e *Executor) runLocalVideoBatch(ctx context.Context, params entities.TaskParams, onProgress contracts.ProgressFunc) contracts.ExecutionResult {
	entries, err := os.ReadDir(params.VideoPath)
	if err != nil {
		return failure(fmt.Sprintf("failed to read video directory: %v", err))
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			videos = append(videos, filepath.Join(params.VideoPath, entry.Name()))
		}
	}
	if len(videos) == 0 {
		return failure(fmt.Sprintf("no video files found in %s", params.VideoPath))
	}

	var failed []string
	var lastResult string
	for i, video := range videos {
		if ctx.Err() != nil {
			return failure(fmt.Sprintf("batch cancelled after %d/%d files", i, len(videos)))
		}

		onProgress(fmt.Sprintf("批量转录 %d/%d: %s", i+1, len(videos), filepath.Base(video)), i*100/len(videos))
		result := e.runLocalMedia(ctx, video, params, onProgress)
		if result.Success {
			lastResult = result.ResultPath
		} else {
			logger.Warn("Batch file failed", "file", video, "error", result.Error)
			failed = append(failed, filepath.Base(video))
		}
	}

	if len(failed) > 0 {
		return failure(fmt.Sprintf("%d/%d files failed: %s", len(failed), len(videos), strings.Join(failed, ", ")))
	}
	return contracts.ExecutionResult{Success: true, ResultPath: lastResult}
}

func (e *Executor) transcribe(ctx context.Context, mediaPath string, params entities.TaskParams, onProgress contracts.ProgressFunc) (*contracts.TranscribeResult, error) {
	return e.transcriber.Transcribe(ctx, contracts.TranscribeRequest{
		MediaPath:         mediaPath,
		ModelSize:         params.WhisperModelSize,
		SourceLanguage:    params.SourceLanguage,
		GenerateSubtitles: params.GenerateSubtitles,
	}, onProgress)
}

// generateArticle 生成文章,LLM未启用时跳过而不报错
func (e *Executor) generateArticle(ctx context.Context, title, transcript string, params entities.TaskParams) (string, error) {
	if !e.summarizer.Enabled() {
		logger.Warn("Article generation skipped: summarizer disabled", "title", title)
		return "", nil
	}

	summary, err := e.summarizer.GenerateArticle(ctx, contracts.SummaryRequest{
		Title:        title,
		Transcript:   transcript,
		CustomPrompt: params.CustomPrompt,
		TemplatePath: params.TemplatePath,
	})
	if err != nil {
		return "", err
	}
	return summary.ArticlePath, nil
}

func failure(message string) contracts.ExecutionResult {
	return contracts.ExecutionResult{Success: false, Error: message}
}

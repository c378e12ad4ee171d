package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// WhisperTranscriber 基于whisper命令行的转录器
type WhisperTranscriber struct {
	config *config.TranscriberConfig
}

func NewWhisperTranscriber(cfg *config.TranscriberConfig) *WhisperTranscriber {
	return &WhisperTranscriber{config: cfg}
}

// Transcribe 将音视频文件转成文本
// 输出写入配置的转录目录,文件名与媒体文件同名
func (t *WhisperTranscriber) Transcribe(ctx context.Context, req contracts.TranscribeRequest, onProgress contracts.ProgressFunc) (*contracts.TranscribeResult, error) {
	if err := os.MkdirAll(t.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript dir: %w", err)
	}

	modelSize := req.ModelSize
	if modelSize == "" {
		modelSize = t.config.ModelSize
	}

	format := "txt"
	if req.GenerateSubtitles {
		format = "all"
	}

	args := []string{
		req.MediaPath,
		"--model", modelSize,
		"--output_dir", t.config.OutputDir,
		"--output_format", format,
	}
	if req.SourceLanguage != "" {
		args = append(args, "--language", req.SourceLanguage)
	}

	if onProgress != nil {
		onProgress("转录中: "+filepath.Base(req.MediaPath), -1)
	}
	logger.Info("Starting whisper transcription", "media", req.MediaPath, "model", modelSize)

	cmd := exec.CommandContext(ctx, t.config.WhisperPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("whisper failed: %w: %s", err, truncateOutput(output))
	}

	base := strings.TrimSuffix(filepath.Base(req.MediaPath), filepath.Ext(req.MediaPath))
	transcriptPath := filepath.Join(t.config.OutputDir, base+".txt")
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		return nil, fmt.Errorf("whisper produced no transcript: %w", err)
	}

	result := &contracts.TranscribeResult{
		TranscriptPath: transcriptPath,
		Text:           string(text),
	}
	if req.GenerateSubtitles {
		srtPath := filepath.Join(t.config.OutputDir, base+".srt")
		if _, err := os.Stat(srtPath); err == nil {
			result.SubtitlePath = srtPath
		}
	}
	return result, nil
}

func truncateOutput(output []byte) string {
	const max = 500
	s := strings.TrimSpace(string(output))
	if len(s) > max {
		return s[len(s)-max:]
	}
	return s
}

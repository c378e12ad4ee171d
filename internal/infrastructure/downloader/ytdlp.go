package downloader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

var progressPattern = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)

// YtdlpDownloader 基于yt-dlp子进程的平台下载器
// YouTube/Twitter/B站/抖音链接统一交给yt-dlp识别
type YtdlpDownloader struct {
	config *config.DownloaderConfig
}

func NewYtdlpDownloader(cfg *config.DownloaderConfig) *YtdlpDownloader {
	return &YtdlpDownloader{config: cfg}
}

// Download 下载单个链接
// KeepMedia为false时下载到临时目录,返回的Cleanup负责删除;
// ctx取消时子进程被终止
func (d *YtdlpDownloader) Download(ctx context.Context, req contracts.DownloadRequest, onProgress contracts.ProgressFunc) (*contracts.DownloadResult, error) {
	targetDir := d.config.DownloadDir
	var cleanup func()
	if !req.KeepMedia {
		tmpDir, err := os.MkdirTemp("", "idle-task-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp download dir: %w", err)
		}
		targetDir = tmpDir
		cleanup = func() { os.RemoveAll(tmpDir) }
	} else if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	args := []string{
		"--newline",
		"--no-playlist",
		"-o", filepath.Join(targetDir, "%(title).120s.%(ext)s"),
	}
	if req.AudioOnly {
		args = append(args, "-x", "--audio-format", "mp3")
	}
	cookies := req.CookiesFile
	if cookies == "" {
		cookies = d.config.CookiesFile
	}
	if cookies != "" {
		args = append(args, "--cookies", cookies)
	}
	if d.config.Proxy != "" {
		args = append(args, "--proxy", d.config.Proxy)
	}
	args = append(args, req.URL)

	cmd := exec.CommandContext(ctx, d.config.YtdlpPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open yt-dlp stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	logger.Info("Starting yt-dlp download", "url", req.URL, "dir", targetDir)
	if err := cmd.Start(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	var resultPath string
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if path, ok := destinationFromLine(line); ok {
			resultPath = path
		}
		if m := progressPattern.FindStringSubmatch(line); m != nil && onProgress != nil {
			if percent, err := strconv.ParseFloat(m[1], 64); err == nil {
				onProgress("下载中: "+req.URL, int(percent))
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	if resultPath == "" {
		resultPath = newestFileIn(targetDir)
	}
	if resultPath == "" {
		if cleanup != nil {
			cleanup()
		}
		return nil, fmt.Errorf("yt-dlp produced no output file for %s", req.URL)
	}

	title := strings.TrimSuffix(filepath.Base(resultPath), filepath.Ext(resultPath))
	return &contracts.DownloadResult{
		FilePath: resultPath,
		Title:    title,
		Cleanup:  cleanup,
	}, nil
}

// destinationFromLine 从yt-dlp输出中提取产物路径
// 合并音视频时以Merger行为准
func destinationFromLine(line string) (string, bool) {
	const (
		destPrefix  = "[download] Destination: "
		mergePrefix = "[Merger] Merging formats into "
		extractLine = "[ExtractAudio] Destination: "
	)
	switch {
	case strings.HasPrefix(line, mergePrefix):
		return strings.Trim(strings.TrimPrefix(line, mergePrefix), `"`), true
	case strings.HasPrefix(line, extractLine):
		return strings.TrimPrefix(line, extractLine), true
	case strings.HasPrefix(line, destPrefix):
		return strings.TrimPrefix(line, destPrefix), true
	}
	return "", false
}

func newestFileIn(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, entry.Name())
			newestMod = mod
		}
	}
	return newest
}

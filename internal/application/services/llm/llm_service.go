package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/easayliu/video-idle-queue/internal/application/contracts"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/internal/infrastructure/openai"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

const defaultPrompt = `你是一位专业的内容编辑。请根据下面的视频转录文本,整理出一篇结构清晰的中文文章。
要求:
1. 保留原视频的核心观点和论证过程
2. 去掉口语化的重复和语气词
3. 使用小标题组织内容
4. 结尾给出简短总结`

// LLMService 调用OpenAI将转录文本整理成文章
type LLMService struct {
	client     *openai.Client
	summaryDir string
}

// NewLLMService 创建LLM服务
// API Key未配置时返回DisabledService,任务跳过文章生成
func NewLLMService(cfg *config.OpenAIConfig) contracts.Summarizer {
	clientConfig := openai.NewConfigFromAppConfig(cfg)
	client, err := openai.NewClient(clientConfig)
	if err != nil {
		logger.Warn("OpenAI client unavailable, article generation disabled", "error", err)
		return NewDisabledService()
	}
	return &LLMService{client: client, summaryDir: cfg.SummaryDir}
}

func (s *LLMService) Enabled() bool {
	return true
}

// GenerateArticle 生成文章并写入摘要目录
func (s *LLMService) GenerateArticle(ctx context.Context, req contracts.SummaryRequest) (*contracts.SummaryResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	prompt, err := s.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.ChatCompletion(ctx, &openai.ChatRequest{
		Messages: []openai.ChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: fmt.Sprintf("视频标题: %s\n\n转录文本:\n%s", req.Title, req.Transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("article generation failed: %w", err)
	}

	article := resp.Choices[0].Message.Content
	articlePath, err := s.writeArticle(req.Title, article)
	if err != nil {
		return nil, err
	}

	logger.Info("Article generated",
		"title", req.Title,
		"path", articlePath,
		"tokens", resp.Usage.TotalTokens,
	)
	return &contracts.SummaryResult{ArticlePath: articlePath}, nil
}

// buildPrompt 确定系统提示词
// 优先级: 自定义提示词 > 模板文件 > 内置默认
func (s *LLMService) buildPrompt(req contracts.SummaryRequest) (string, error) {
	if req.CustomPrompt != "" {
		return req.CustomPrompt, nil
	}
	if req.TemplatePath != "" {
		data, err := os.ReadFile(req.TemplatePath)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt template: %w", err)
		}
		return string(data), nil
	}
	return defaultPrompt, nil
}

func (s *LLMService) writeArticle(title, content string) (string, error) {
	if err := os.MkdirAll(s.summaryDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary dir: %w", err)
	}

	name := sanitizeFilename(title)
	if name == "" {
		name = "article"
	}
	path := filepath.Join(s.summaryDir, fmt.Sprintf("%s_%s.md", name, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write article: %w", err)
	}
	return path, nil
}

// sanitizeFilename 去掉文件名中的非法字符
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	const maxLen = 80
	runes := []rune(cleaned)
	if len(runes) > maxLen {
		cleaned = string(runes[:maxLen])
	}
	return cleaned
}

package openai

import (
	"os"
	"time"

	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
)

// Config OpenAI客户端配置
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	QPS         int
}

// NewConfigFromAppConfig 从应用配置创建OpenAI客户端配置
// 优先使用环境变量中的API Key
func NewConfigFromAppConfig(cfg *config.OpenAIConfig) *Config {
	apiKey := cfg.APIKey
	if envKey := os.Getenv("OPENAI_API_KEY"); envKey != "" {
		apiKey = envKey
	}

	return &Config{
		APIKey:      apiKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		QPS:         cfg.QPS,
	}
}

// Validate 验证配置并补全默认值
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Timeout == 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Model == "" {
		c.Model = "gpt-3.5-turbo"
	}
	return nil
}

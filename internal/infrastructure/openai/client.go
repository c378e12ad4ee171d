package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/easayliu/video-idle-queue/internal/infrastructure/ratelimit"
	"github.com/easayliu/video-idle-queue/pkg/logger"
)

// Client OpenAI API客户端
type Client struct {
	config      *Config
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
}

// NewClient 创建OpenAI客户端
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Creating OpenAI client",
		"base_url", config.BaseURL,
		"model", config.Model,
		"qps", config.QPS,
		"timeout", config.Timeout,
	)

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: ratelimit.NewRateLimiter(config.QPS),
	}, nil
}

// Model 默认模型名
func (c *Client) Model() string {
	return c.config.Model
}

// ChatCompletion 执行Chat Completion请求(非流式)
func (c *Client) ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	req.Stream = false
	if req.Model == "" {
		req.Model = c.config.Model
	}
	if req.Temperature == 0 {
		req.Temperature = c.config.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	logger.Debug("Sending OpenAI chat request",
		"model", req.Model,
		"messages_count", len(req.Messages),
	)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.config.BaseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrRequestFailed, apiErr.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	logger.Debug("OpenAI chat response received",
		"model", chatResp.Model,
		"total_tokens", chatResp.Usage.TotalTokens,
	)

	return &chatResp, nil
}

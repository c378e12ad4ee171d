package openai

import "errors"

var (
	// ErrMissingAPIKey API密钥缺失
	ErrMissingAPIKey = errors.New("openai api key is required")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid openai config")

	// ErrRequestFailed 请求失败
	ErrRequestFailed = errors.New("openai api request failed")

	// ErrEmptyResponse 返回空响应
	ErrEmptyResponse = errors.New("openai api returned empty response")
)

package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/easayliu/video-idle-queue/internal/infrastructure/config"
	"github.com/easayliu/video-idle-queue/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client Telegram通知客户端,仅用于出站状态消息
type Client struct {
	config *config.TelegramConfig
	bot    *tgbotapi.BotAPI
}

func NewClient(cfg *config.TelegramConfig) *Client {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to create Telegram bot", "error", err)
		return &Client{config: cfg, bot: nil}
	}

	logger.Info("Telegram bot connected successfully", "username", bot.Self.UserName)
	return &Client{config: cfg, bot: bot}
}

// Broadcast 向配置的所有会话发送消息
func (c *Client) Broadcast(text string) error {
	if c.bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}

	cleanText := cleanUTF8(text)
	var lastErr error
	for _, chatID := range c.config.ChatIDs {
		msg := tgbotapi.NewMessage(chatID, cleanText)
		if _, err := c.bot.Send(msg); err != nil {
			logger.Error("Failed to send telegram message", "chat_id", chatID, "error", err)
			lastErr = fmt.Errorf("failed to send telegram message: %w", err)
		}
	}
	return lastErr
}

// cleanUTF8 确保文本是有效的UTF-8编码
func cleanUTF8(text string) string {
	if !utf8.ValidString(text) {
		return strings.ToValidUTF8(text, "?")
	}
	return text
}

package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Downloader  DownloaderConfig  `mapstructure:"downloader"`
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"` // 仅监听回环地址,供浏览器扩展调用
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	QPS  int    `mapstructure:"qps"` // API限速,默认20
}

type QueueConfig struct {
	FilePath string `mapstructure:"file_path"` // 队列持久化文件
}

type SchedulerConfig struct {
	TickSeconds          int    `mapstructure:"tick_seconds"`            // 闲时检查周期,默认60
	FollowUpDelaySeconds int    `mapstructure:"follow_up_delay_seconds"` // 任务完成后续检查延迟,默认5
	IdleStartTime        string `mapstructure:"idle_start_time"`         // 持久化文件缺失时的默认值
	IdleEndTime          string `mapstructure:"idle_end_time"`
}

type DownloaderConfig struct {
	YtdlpPath   string `mapstructure:"ytdlp_path"`
	DownloadDir string `mapstructure:"download_dir"`
	CookiesFile string `mapstructure:"cookies_file"`
	Proxy       string `mapstructure:"proxy"`
}

type TranscriberConfig struct {
	WhisperPath string `mapstructure:"whisper_path"`
	ModelSize   string `mapstructure:"model_size"`
	OutputDir   string `mapstructure:"output_dir"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // 秒
	QPS         int     `mapstructure:"qps"`
	SummaryDir  string  `mapstructure:"summary_dir"`
}

type TelegramConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	BotToken string  `mapstructure:"bot_token"`
	ChatIDs  []int64 `mapstructure:"chat_ids"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	Format    string `mapstructure:"format"`
	FilePath  string `mapstructure:"file_path"`
	Colorize  bool   `mapstructure:"colorize"`
	AddSource bool   `mapstructure:"add_source"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// 设置默认值
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "8765")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.qps", 20)

	viper.SetDefault("queue.file_path", "./data/idle_queue.json")

	viper.SetDefault("scheduler.tick_seconds", 60)
	viper.SetDefault("scheduler.follow_up_delay_seconds", 5)
	viper.SetDefault("scheduler.idle_start_time", "23:00")
	viper.SetDefault("scheduler.idle_end_time", "07:00")

	viper.SetDefault("downloader.ytdlp_path", "yt-dlp")
	viper.SetDefault("downloader.download_dir", "./downloads")

	viper.SetDefault("transcriber.whisper_path", "whisper")
	viper.SetDefault("transcriber.model_size", "small")
	viper.SetDefault("transcriber.output_dir", "./transcripts")

	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-3.5-turbo")
	viper.SetDefault("openai.temperature", 0.7)
	viper.SetDefault("openai.max_tokens", 4000)
	viper.SetDefault("openai.timeout", 120)
	viper.SetDefault("openai.qps", 2)
	viper.SetDefault("openai.summary_dir", "./summaries")

	viper.SetDefault("telegram.enabled", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "console")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.colorize", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

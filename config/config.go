package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/download"
	"github.com/yourusername/sticker-favorites-bot/internal/usecase"
)

// Bot ishlash rejimlari
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken string
	Debug         bool

	StickerSetName  string // {user_id} va {bot} shablon
	StickerSetTitle string
	Emoji           string

	DownloadDir      string
	MaxDownloadBytes int64

	StickerDBPath string // bo'sh bo'lsa xotirada
	HistoryLimit  int

	Mode          string
	WebhookURL    string
	WebhookSecret string
	ListenAddr    string

	LogLevel  slog.Level
	LogFormat string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv berilgan getenv funksiyasidan o'qish (testlar uchun)
func FromEnv(getenv func(string) string) (*Config, error) {
	config := &Config{
		TelegramToken:    getenv("BOT_TOKEN"),
		StickerSetName:   usecase.DefaultSetNameTemplate,
		StickerSetTitle:  usecase.DefaultSetTitle,
		Emoji:            usecase.DefaultEmoji,
		DownloadDir:      getenv("DOWNLOAD_DIR"),
		MaxDownloadBytes: download.DefaultMaxBytes,
		StickerDBPath:    getenv("STICKER_DB_PATH"),
		HistoryLimit:     500,
		Mode:             ModePolling,
		WebhookURL:       getenv("WEBHOOK_URL"),
		WebhookSecret:    getenv("WEBHOOK_SECRET"),
		ListenAddr:       ":8080",
		LogLevel:         slog.LevelInfo,
		LogFormat:        "text",
	}

	// Eski nom bilan ham ishlaydi
	if config.TelegramToken == "" {
		config.TelegramToken = getenv("TELEGRAM_BOT_TOKEN")
	}

	if v := getenv("STICKER_SET_NAME"); v != "" {
		config.StickerSetName = v
	}
	if v := getenv("STICKER_SET_TITLE"); v != "" {
		config.StickerSetTitle = v
	}
	if v := getenv("EMOJI"); v != "" {
		config.Emoji = v
	}
	if v := getenv("LISTEN_ADDR"); v != "" {
		config.ListenAddr = v
	}

	if raw := getenv("MAX_DOWNLOAD_BYTES"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("MAX_DOWNLOAD_BYTES noto'g'ri formatda: %q", raw)
		}
		config.MaxDownloadBytes = parsed
	}

	if raw := getenv("HISTORY_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("HISTORY_LIMIT noto'g'ri formatda: %q", raw)
		}
		config.HistoryLimit = parsed
	}

	if raw := getenv("BOT_DEBUG"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("BOT_DEBUG noto'g'ri formatda: %v", err)
		}
		config.Debug = parsed
	}

	if raw := getenv("BOT_MODE"); raw != "" {
		config.Mode = strings.ToLower(raw)
	}

	if raw := getenv("LOG_LEVEL"); raw != "" {
		if err := config.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL noto'g'ri: %v", err)
		}
	}
	if raw := getenv("LOG_FORMAT"); raw != "" {
		config.LogFormat = strings.ToLower(raw)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validatsiya
func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("BOT_TOKEN environment variable bo'sh")
	}

	switch c.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("webhook rejimida WEBHOOK_URL kerak")
		}
		if c.WebhookSecret == "" {
			return fmt.Errorf("webhook rejimida WEBHOOK_SECRET kerak")
		}
	default:
		return fmt.Errorf("BOT_MODE noma'lum: %q (polling yoki webhook)", c.Mode)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT noma'lum: %q (text yoki json)", c.LogFormat)
	}

	return nil
}

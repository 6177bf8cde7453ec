package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/sticker-favorites-bot/config"
	"github.com/yourusername/sticker-favorites-bot/internal/delivery/telegram"
	"github.com/yourusername/sticker-favorites-bot/internal/delivery/webhook"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/download"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/export"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/resilience"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/scrub"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/storage"
	"github.com/yourusername/sticker-favorites-bot/internal/infrastructure/tgapi"
	"github.com/yourusername/sticker-favorites-bot/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", scrub.TokenFromError(err, cfg.TelegramToken))
	}
	bot.Debug = cfg.Debug
	logger.Info("authorized", "username", bot.Self.UserName)

	// Fayl yuklab olish: circuit breaker + hajm cheklovi
	dlCfg := download.DefaultConfig()
	dlCfg.MaxBytes = cfg.MaxDownloadBytes
	dlCfg.SpoolDir = cfg.DownloadDir
	dlCfg.Token = cfg.TelegramToken
	if cfg.DownloadDir != "" {
		if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
			return fmt.Errorf("failed to create download dir: %w", err)
		}
	}
	downloader := download.New(
		download.NewHTTPClient(dlCfg),
		dlCfg,
		download.NewBreaker("telegram-file"),
	)

	limiter := resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig())
	defer limiter.Close()

	client := tgapi.NewClient(bot, downloader,
		tgapi.WithRateLimiter(limiter),
		tgapi.WithLogger(logger),
	)

	logRepo, err := newStickerLogRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer logRepo.Close()

	stickerUseCase := usecase.NewStickerUseCase(
		client,
		client,
		client,
		logRepo,
		usecase.StickerSettings{
			NameTemplate: cfg.StickerSetName,
			Title:        cfg.StickerSetTitle,
			DefaultEmoji: cfg.Emoji,
			BotUsername:  client.BotUsername(),
		},
		logger,
	)
	historyUseCase := usecase.NewHistoryUseCase(logRepo, export.NewExcelExporter())

	handler := telegram.NewBotHandler(client.BotUsername(), client, stickerUseCase, historyUseCase, logger)

	if cfg.Mode == config.ModeWebhook {
		return runWebhook(ctx, cfg, bot, handler, logger)
	}

	// Oldingi webhook qolgan bo'lsa getUpdates ishlamaydi
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.Warn("failed to delete webhook", "error", scrub.TokenFromError(err, cfg.TelegramToken))
	}
	return handler.Start(ctx, bot)
}

func runWebhook(ctx context.Context, cfg *config.Config, bot *tgbotapi.BotAPI, handler *telegram.BotHandler, logger *slog.Logger) error {
	link := strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/" + cfg.WebhookSecret
	wh, err := tgbotapi.NewWebhook(link)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if _, err := bot.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", scrub.TokenFromError(err, cfg.TelegramToken))
	}
	logger.Info("bot started", "username", bot.Self.UserName, "mode", "webhook")

	return webhook.NewServer(cfg.ListenAddr, cfg.WebhookSecret, handler, logger).Run(ctx)
}

func newStickerLogRepository(cfg *config.Config, logger *slog.Logger) (repository.StickerLogRepository, error) {
	if cfg.StickerDBPath == "" {
		logger.Info("sticker history kept in memory", "limit", cfg.HistoryLimit)
		return storage.NewMemoryStickerLogRepository(cfg.HistoryLimit), nil
	}

	repo, err := storage.NewSQLiteStickerLogRepository(cfg.StickerDBPath, cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to open sticker history: %w", err)
	}
	logger.Info("sticker history stored in sqlite", "path", cfg.StickerDBPath, "limit", cfg.HistoryLimit)
	return repo, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

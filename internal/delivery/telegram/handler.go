package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/usecase"
)

// UpdateSource long polling manbasi (*tgbotapi.BotAPI)
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Sender foydalanuvchiga xabar va fayl yuborish
type Sender interface {
	Notify(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte, caption string) error
}

// BotHandler Telegram bot handler
type BotHandler struct {
	botUsername    string
	sender         Sender
	stickerUseCase usecase.StickerUseCase
	historyUseCase usecase.HistoryUseCase
	logger         *slog.Logger
	wg             sync.WaitGroup
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	botUsername string,
	sender Sender,
	stickerUseCase usecase.StickerUseCase,
	historyUseCase usecase.HistoryUseCase,
	logger *slog.Logger,
) *BotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotHandler{
		botUsername:    botUsername,
		sender:         sender,
		stickerUseCase: stickerUseCase,
		historyUseCase: historyUseCase,
		logger:         logger,
	}
}

// Start long polling orqali botni ishga tushirish. ctx bekor bo'lganda
// yangi update lar olinmaydi, boshlangan ishlov berishlar tugashi kutiladi.
func (h *BotHandler) Start(ctx context.Context, source UpdateSource) error {
	h.logger.Info("bot started", "username", h.botUsername, "mode", "polling")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := source.GetUpdatesChan(u)
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("bot stopping")
			source.StopReceivingUpdates()
			h.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.Wait()
				return nil
			}
			h.Go(handlerCtx, update)
		}
	}
}

// Go update ni alohida goroutine da qayta ishlash
func (h *BotHandler) Go(ctx context.Context, update tgbotapi.Update) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.HandleUpdate(ctx, update)
	}()
}

// Wait boshlangan barcha ishlov berishlar tugashini kutish
func (h *BotHandler) Wait() {
	h.wg.Wait()
}

// HandleUpdate bitta update ni qayta ishlash
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	if update.Message == nil {
		return
	}
	h.handleMessage(ctx, update.Message)
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	conv := conversationFrom(message)

	// Komandalarni qayta ishlash
	if message.IsCommand() {
		h.handleCommand(ctx, conv, message)
		return
	}

	h.handleStickerMessage(ctx, conv, message)
}

// handleStickerMessage stiker (yoki stiker bo'lmagan xabar) ni qayta ishlash
func (h *BotHandler) handleStickerMessage(ctx context.Context, conv entity.Conversation, message *tgbotapi.Message) {
	h.logger.Info("handling sticker", "user", conv.Username(), "chat_id", conv.ChatID)

	outcome, err := h.stickerUseCase.ProcessSticker(ctx, conv, stickerFrom(message))
	if err != nil {
		// Xatolik usecase ichida log qilingan va foydalanuvchiga xabar yuborilgan
		return
	}

	h.logger.Info("finished handling sticker", "user", conv.Username(), "outcome", outcome.String())
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, conv entity.Conversation, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(ctx, conv.ChatID, welcomeMessage)
	case "help":
		h.sendMessage(ctx, conv.ChatID, helpMessage)
	case "myset":
		name := h.stickerUseCase.SetName(conv.UserID())
		h.sendMessage(ctx, conv.ChatID, fmt.Sprintf("Your favorites set: %s", usecase.SetLink(name)))
	case "stats":
		h.handleStatsCommand(ctx, conv)
	case "export":
		h.handleExportCommand(ctx, conv)
	case "clear":
		h.handleClearCommand(ctx, conv)
	default:
		h.sendMessage(ctx, conv.ChatID, "Unknown command. See /help.")
	}
}

// handleStatsCommand statistika
func (h *BotHandler) handleStatsCommand(ctx context.Context, conv entity.Conversation) {
	stats, err := h.historyUseCase.Stats(ctx, conv.UserID())
	if err != nil {
		h.logger.Error("failed to load stats", "user_id", conv.UserID(), "error", err)
		h.sendMessage(ctx, conv.ChatID, "Failed to load your stats.")
		return
	}
	h.sendMessage(ctx, conv.ChatID, formatStats(stats))
}

// handleExportCommand tarixni .xlsx qilib yuborish
func (h *BotHandler) handleExportCommand(ctx context.Context, conv entity.Conversation) {
	name, data, err := h.historyUseCase.Export(ctx, conv.UserID())
	if errors.Is(err, usecase.ErrNoHistory) {
		h.sendMessage(ctx, conv.ChatID, "Nothing to export yet. Send me a sticker first.")
		return
	}
	if err != nil {
		h.logger.Error("failed to export history", "user_id", conv.UserID(), "error", err)
		h.sendMessage(ctx, conv.ChatID, "Failed to export your history.")
		return
	}

	if err := h.sender.SendDocument(ctx, conv.ChatID, name, data, "Your sticker history"); err != nil {
		h.logger.Error("failed to send export", "user_id", conv.UserID(), "error", err)
	}
}

// handleClearCommand tarixni tozalash (to'plamning o'ziga tegmaydi)
func (h *BotHandler) handleClearCommand(ctx context.Context, conv entity.Conversation) {
	if err := h.historyUseCase.Clear(ctx, conv.UserID()); err != nil {
		h.logger.Error("failed to clear history", "user_id", conv.UserID(), "error", err)
		h.sendMessage(ctx, conv.ChatID, "Failed to clear your history.")
		return
	}
	h.sendMessage(ctx, conv.ChatID, "Your sticker history is cleared. Your sticker set is untouched.")
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Notify(ctx, chatID, text); err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

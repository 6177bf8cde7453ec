package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/entity"
	"github.com/yourusername/sticker-favorites-bot/internal/domain/repository"
)

// StickerUseCase stikerni sevimlilar to'plamiga saqlash logikasi
type StickerUseCase interface {
	// ProcessSticker yuklab olish, to'plamga qo'shish (yoki yaratish) va javob yuborish.
	// sticker nil bo'lsa faqat ko'rsatma xabari yuboriladi.
	ProcessSticker(ctx context.Context, conv entity.Conversation, sticker *entity.Sticker) (entity.Outcome, error)

	// SetName foydalanuvchi to'plamining nomi
	SetName(userID int64) string
}

type stickerUseCase struct {
	downloader repository.FileDownloader
	provider   repository.StickerSetProvider
	notifier   repository.Notifier
	logRepo    repository.StickerLogRepository
	settings   StickerSettings
	logger     *slog.Logger
}

// NewStickerUseCase yangi StickerUseCase yaratish. logRepo nil bo'lishi mumkin.
func NewStickerUseCase(
	downloader repository.FileDownloader,
	provider repository.StickerSetProvider,
	notifier repository.Notifier,
	logRepo repository.StickerLogRepository,
	settings StickerSettings,
	logger *slog.Logger,
) StickerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &stickerUseCase{
		downloader: downloader,
		provider:   provider,
		notifier:   notifier,
		logRepo:    logRepo,
		settings:   settings.withDefaults(),
		logger:     logger,
	}
}

// ProcessSticker stikerni qayta ishlash
func (u *stickerUseCase) ProcessSticker(ctx context.Context, conv entity.Conversation, sticker *entity.Sticker) (entity.Outcome, error) {
	log := u.logger.With("user", conv.Username(), "user_id", conv.UserID(), "chat_id", conv.ChatID)

	if sticker == nil || sticker.FileID == "" {
		log.Warn("received invalid sticker")
		u.notify(ctx, log, conv.ChatID, entity.OutcomeInvalid)
		u.record(ctx, log, conv, "", "", entity.OutcomeInvalid, nil)
		return entity.OutcomeInvalid, nil
	}

	setName := u.SetName(conv.UserID())
	log = log.With("file_id", sticker.FileID, "set", setName)
	log.Info("processing sticker")

	outcome, err := u.saveSticker(ctx, log, conv, sticker, setName)
	if err != nil {
		log.Error("failed to save sticker", "error", err)
	} else {
		log.Info("finished processing sticker", "outcome", outcome.String())
	}

	u.notify(ctx, log, conv.ChatID, outcome)
	u.record(ctx, log, conv, sticker.FileID, setName, outcome, err)

	return outcome, err
}

// saveSticker download -> upload -> add yoki create
func (u *stickerUseCase) saveSticker(ctx context.Context, log *slog.Logger, conv entity.Conversation, sticker *entity.Sticker, setName string) (entity.Outcome, error) {
	content, err := u.downloader.DownloadFile(ctx, sticker.FileID)
	if errors.Is(err, entity.ErrNotStatic) {
		log.Warn("received non-static sticker", "error", err)
		return entity.OutcomeInvalid, nil
	}
	if err != nil {
		return entity.OutcomeFailed, fmt.Errorf("failed to download sticker: %w", err)
	}
	sticker.Content = content
	log.Debug("downloaded sticker", "bytes", len(content))

	uploadedID, err := u.provider.UploadStickerFile(ctx, conv.UserID(), sticker.Content)
	if err != nil {
		return entity.OutcomeFailed, fmt.Errorf("failed to upload sticker: %w", err)
	}

	input := entity.InputSticker{
		FileID:    uploadedID,
		Format:    entity.StickerFormatStatic,
		EmojiList: []string{u.emojiFor(sticker)},
	}

	err = u.provider.AddStickerToSet(ctx, conv.UserID(), setName, input)
	switch {
	case err == nil:
		return entity.OutcomeAdded, nil
	case errors.Is(err, entity.ErrStickerSetNotFound):
		log.Info("sticker set not found, creating")
		if err := u.provider.CreateStickerSet(ctx, conv.UserID(), setName, u.settings.Title, input); err != nil {
			return entity.OutcomeFailed, fmt.Errorf("failed to create sticker set: %w", err)
		}
		return entity.OutcomeCreated, nil
	default:
		return entity.OutcomeFailed, fmt.Errorf("failed to add sticker to set: %w", err)
	}
}

// SetName foydalanuvchi to'plamining nomi
func (u *stickerUseCase) SetName(userID int64) string {
	return ExpandSetName(u.settings.NameTemplate, userID, u.settings.BotUsername)
}

// emojiFor stikerning o'z emojisi, bo'lmasa standart emoji
func (u *stickerUseCase) emojiFor(sticker *entity.Sticker) string {
	if sticker.Emoji != "" {
		return sticker.Emoji
	}
	return u.settings.DefaultEmoji
}

func (u *stickerUseCase) notify(ctx context.Context, log *slog.Logger, chatID int64, outcome entity.Outcome) {
	if err := u.notifier.Notify(ctx, chatID, outcome.Message()); err != nil {
		log.Error("failed to notify user", "outcome", outcome.String(), "error", err)
	}
}

// record tarixga yozish. Saqlash xatoligi javobga ta'sir qilmaydi
func (u *stickerUseCase) record(ctx context.Context, log *slog.Logger, conv entity.Conversation, fileID, setName string, outcome entity.Outcome, cause error) {
	if u.logRepo == nil {
		return
	}

	rec := entity.StickerRecord{
		ID:        uuid.New().String(),
		UserID:    conv.UserID(),
		Username:  conv.Username(),
		ChatID:    conv.ChatID,
		FileID:    fileID,
		SetName:   setName,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
	if cause != nil {
		rec.Reason = cause.Error()
	}

	if err := u.logRepo.Save(ctx, rec); err != nil {
		log.Warn("failed to save sticker record", "error", err)
	}
}
